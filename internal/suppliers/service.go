// Package suppliers manages the company collection. Company codes are
// numeric strings allocated from the current collection size (100, 101,
// ...); the code doubles as the document id.
package suppliers

import (
	"fmt"
	"strings"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/domain"
	"github.com/martpos/martpos/internal/platform/httpx"
	"github.com/martpos/martpos/internal/store"
)

// ErrNameRequired rejects companies without a name.
var ErrNameRequired = fmt.Errorf("%w: company name required", httpx.ErrValidation)

// Persistence is the fire-and-forget remote write port.
type Persistence interface {
	Put(collection, id string, doc any)
}

// Service coordinates company mutations against the reconciliation store.
type Service struct {
	store   *store.Store
	persist Persistence
}

// NewService builds Service.
func NewService(st *store.Store, persist Persistence) *Service {
	return &Service{store: st, persist: persist}
}

// Create allocates the next code and appends the company. The code is not
// reserved ahead of save; two clients creating against the same snapshot
// allocate the same code. Known hazard, not detected here.
func (s *Service) Create(name string) (domain.Company, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Company{}, ErrNameRequired
	}

	companies := s.store.Companies.Get()
	code := domain.NextCompanyCode(len(companies))
	company := domain.Company{
		ID:                 code,
		Name:               name,
		Code:               code,
		OutstandingBalance: 0,
	}

	s.store.Companies.Replace(append(companies, company))
	s.persist.Put(docstore.CollectionCompanies, company.ID, company)
	return company, nil
}

// List returns all companies.
func (s *Service) List() []domain.Company {
	return s.store.Companies.Get()
}

// Get returns the company with the given id.
func (s *Service) Get(id string) (domain.Company, bool) {
	for _, c := range s.store.Companies.Get() {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Company{}, false
}
