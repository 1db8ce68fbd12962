// Package catalog manages the product collection: creation, edits,
// search, goods-receipt materialization and barcode label batches.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/domain"
	"github.com/martpos/martpos/internal/platform/httpx"
	"github.com/martpos/martpos/internal/store"
)

var (
	// ErrNameRequired rejects products without a name.
	ErrNameRequired = fmt.Errorf("%w: product name required", httpx.ErrValidation)
	// ErrBarcodeRequired rejects products without a barcode.
	ErrBarcodeRequired = fmt.Errorf("%w: product barcode required", httpx.ErrValidation)
	// ErrProductNotFound signals an unknown product id.
	ErrProductNotFound = fmt.Errorf("%w: product", httpx.ErrNotFound)
)

// Persistence is the fire-and-forget remote write port.
type Persistence interface {
	Put(collection, id string, doc any)
	Remove(collection, id string)
}

// Service coordinates product mutations against the reconciliation store.
type Service struct {
	store   *store.Store
	persist Persistence
	clock   func() time.Time
	newID   func() string
}

// NewService builds Service.
func NewService(st *store.Store, persist Persistence) *Service {
	return &Service{
		store:   st,
		persist: persist,
		clock:   time.Now,
		newID:   uuid.NewString,
	}
}

// CreateProductInput carries the new-product form fields. A zero
// SellingPrice means "derive it from the current profit margin".
type CreateProductInput struct {
	Name         string
	Barcode      string
	CompanyID    string
	UnitCost     float64
	SellingPrice float64
	Stock        int
	Category     string
	Unit         string
	Description  string
}

// Create validates the input, derives the selling price when the caller
// did not override it, appends the product locally and persists it.
func (s *Service) Create(input CreateProductInput) (domain.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return domain.Product{}, ErrNameRequired
	}
	if strings.TrimSpace(input.Barcode) == "" {
		return domain.Product{}, ErrBarcodeRequired
	}

	price := input.SellingPrice
	if price == 0 {
		price = domain.SellingPrice(input.UnitCost, s.store.Settings.Get().ProfitMargin)
	}

	product := domain.Product{
		ID:           s.newID(),
		Name:         input.Name,
		Barcode:      input.Barcode,
		CompanyID:    input.CompanyID,
		UnitCost:     input.UnitCost,
		SellingPrice: price,
		Stock:        input.Stock,
		Category:     input.Category,
		Unit:         input.Unit,
		Description:  input.Description,
		CreatedAt:    s.clock(),
	}

	s.store.Products.Replace(append(s.store.Products.Get(), product))
	s.persist.Put(docstore.CollectionProducts, product.ID, product)
	return product, nil
}

// Update replaces the stored product with the same id.
func (s *Service) Update(id string, updated domain.Product) (domain.Product, error) {
	products := s.store.Products.Get()
	for i, p := range products {
		if p.ID != id {
			continue
		}
		updated.ID = id
		if updated.CreatedAt.IsZero() {
			updated.CreatedAt = p.CreatedAt
		}
		products[i] = updated
		s.store.Products.Replace(products)
		s.persist.Put(docstore.CollectionProducts, id, updated)
		return updated, nil
	}
	return domain.Product{}, ErrProductNotFound
}

// Delete recomputes the collection without the target. True delete, no
// tombstone.
func (s *Service) Delete(id string) error {
	products := s.store.Products.Get()
	kept := products[:0]
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrProductNotFound
	}
	s.store.Products.Replace(kept)
	s.persist.Remove(docstore.CollectionProducts, id)
	return nil
}

// Search filters by case-insensitive name substring or barcode substring.
// An empty term returns everything.
func (s *Service) Search(term string) []domain.Product {
	products := s.store.Products.Get()
	if term == "" {
		return products
	}
	lowered := strings.ToLower(term)
	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), lowered) || strings.Contains(p.Barcode, term) {
			matched = append(matched, p)
		}
	}
	return matched
}

// MaterializeReceipt appends one product per received invoice item, stock
// set to the ordered quantity. The append is unconditional: receiving the
// same invoice twice creates the products twice. That matches the shipped
// behavior and is kept deliberately.
func (s *Service) MaterializeReceipt(companyID string, items []domain.InvoiceItem) []domain.Product {
	now := s.clock()
	created := make([]domain.Product, 0, len(items))
	for _, item := range items {
		barcode := item.Barcode
		if barcode == "" {
			barcode = "N/A"
		}
		created = append(created, domain.Product{
			ID:           item.ProductID,
			Name:         item.Name,
			Barcode:      barcode,
			CompanyID:    companyID,
			UnitCost:     item.UnitCost,
			SellingPrice: item.SellingPrice,
			Stock:        item.Quantity,
			CreatedAt:    now,
		})
	}

	s.store.Products.Replace(append(s.store.Products.Get(), created...))
	for _, p := range created {
		s.persist.Put(docstore.CollectionProducts, p.ID, p)
	}
	return created
}

// LabelBatch repeats the product count times for the label print queue.
func (s *Service) LabelBatch(productID string, count int) ([]domain.Product, error) {
	if count < 1 {
		count = 1
	}
	for _, p := range s.store.Products.Get() {
		if p.ID != productID {
			continue
		}
		batch := make([]domain.Product, count)
		for i := range batch {
			batch[i] = p
		}
		return batch, nil
	}
	return nil, ErrProductNotFound
}
