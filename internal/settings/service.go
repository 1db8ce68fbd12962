// Package settings manages the per-deployment configuration singleton.
package settings

import (
	"fmt"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/domain"
	"github.com/martpos/martpos/internal/platform/httpx"
	"github.com/martpos/martpos/internal/store"
)

var (
	// ErrAppNameRequired rejects a blank application name.
	ErrAppNameRequired = fmt.Errorf("%w: app name required", httpx.ErrValidation)
	// ErrBadMargin rejects negative profit margins.
	ErrBadMargin = fmt.Errorf("%w: profit margin must not be negative", httpx.ErrValidation)
)

// Persistence is the fire-and-forget remote write port.
type Persistence interface {
	Put(collection, id string, doc any)
}

// Service coordinates settings mutations against the reconciliation store.
type Service struct {
	store   *store.Store
	persist Persistence
}

// NewService builds Service.
func NewService(st *store.Store, persist Persistence) *Service {
	return &Service{store: st, persist: persist}
}

// Get returns the current settings.
func (s *Service) Get() domain.Settings {
	return s.store.Settings.Get()
}

// Update replaces the singleton and persists it immediately. New products
// pick up the margin on their next price derivation; existing prices are
// never recomputed.
func (s *Service) Update(next domain.Settings) (domain.Settings, error) {
	if next.AppName == "" {
		return domain.Settings{}, ErrAppNameRequired
	}
	if next.ProfitMargin < 0 {
		return domain.Settings{}, ErrBadMargin
	}
	s.store.Settings.Set(next)
	s.persist.Put(docstore.CollectionConfig, docstore.SettingsDocID, next)
	return next, nil
}
