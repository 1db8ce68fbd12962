// Package invoicing manages purchase invoices and order requests: creation
// with derived totals, order-status toggling with goods receipt, and the
// WhatsApp share link.
package invoicing

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/domain"
	"github.com/martpos/martpos/internal/platform/httpx"
	"github.com/martpos/martpos/internal/store"
)

var (
	// ErrCompanyRequired rejects invoices without a supplier.
	ErrCompanyRequired = fmt.Errorf("%w: company required", httpx.ErrValidation)
	// ErrItemsRequired rejects invoices with no line items.
	ErrItemsRequired = fmt.Errorf("%w: at least one item required", httpx.ErrValidation)
	// ErrInvoiceNotFound signals an unknown invoice id.
	ErrInvoiceNotFound = fmt.Errorf("%w: invoice", httpx.ErrNotFound)
)

// Persistence is the fire-and-forget remote write port.
type Persistence interface {
	Put(collection, id string, doc any)
}

// Catalog materializes received order items into the product collection.
type Catalog interface {
	MaterializeReceipt(companyID string, items []domain.InvoiceItem) []domain.Product
}

// Service coordinates invoice mutations against the reconciliation store.
type Service struct {
	store   *store.Store
	persist Persistence
	catalog Catalog
	clock   func() time.Time
	newID   func() string
	printer *message.Printer
}

// NewService builds Service.
func NewService(st *store.Store, persist Persistence, catalog Catalog) *Service {
	return &Service{
		store:   st,
		persist: persist,
		catalog: catalog,
		clock:   time.Now,
		newID:   uuid.NewString,
		printer: message.NewPrinter(language.English),
	}
}

// ItemInput is one draft invoice line. A zero SellingPrice means "derive it
// from the current profit margin".
type ItemInput struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Barcode      string  `json:"barcode"`
	Quantity     int     `json:"quantity"`
	UnitCost     float64 `json:"unitCost"`
	SellingPrice float64 `json:"sellingPrice"`
}

// CreateInvoiceInput carries the new-invoice form fields.
type CreateInvoiceInput struct {
	CompanyID  string
	Items      []ItemInput
	PaidAmount float64
	Type       domain.InvoiceType
}

// Create validates the draft, recomputes every derived field and prepends
// the invoice. The invoice number comes from the current collection size,
// so the sequence restarts from the snapshot after a concurrent create.
func (s *Service) Create(input CreateInvoiceInput) (domain.Invoice, error) {
	if input.CompanyID == "" {
		return domain.Invoice{}, ErrCompanyRequired
	}
	if len(input.Items) == 0 {
		return domain.Invoice{}, ErrItemsRequired
	}

	companyName := ""
	for _, c := range s.store.Companies.Get() {
		if c.ID == input.CompanyID {
			companyName = c.Name
			break
		}
	}

	margin := s.store.Settings.Get().ProfitMargin
	items := make([]domain.InvoiceItem, 0, len(input.Items))
	for _, in := range input.Items {
		item := domain.InvoiceItem{
			ProductID:    in.ProductID,
			Name:         in.Name,
			Barcode:      in.Barcode,
			Quantity:     in.Quantity,
			UnitCost:     in.UnitCost,
			SellingPrice: in.SellingPrice,
		}
		if item.ProductID == "" {
			item.ProductID = s.newID()
		}
		if item.SellingPrice == 0 {
			item.SellingPrice = domain.SellingPrice(item.UnitCost, margin)
		}
		item.Total = domain.LineTotal(item)
		items = append(items, item)
	}

	invoices := s.store.Invoices.Get()
	now := s.clock()
	total, remaining, status := domain.InvoiceTotals(items, input.PaidAmount)

	invType := input.Type
	if invType == "" {
		invType = domain.InvoicePurchase
	}

	invoice := domain.Invoice{
		ID:               s.newID(),
		InvoiceNumber:    domain.NextInvoiceNumber(len(invoices)),
		CompanyID:        input.CompanyID,
		CompanyName:      companyName,
		Items:            items,
		TotalAmount:      total,
		PaidAmount:       input.PaidAmount,
		RemainingBalance: remaining,
		Status:           status,
		Type:             invType,
		OrderStatus:      domain.OrderPending,
		CreatedAt:        now,
		ExpiryDate:       domain.InvoiceExpiry(now),
	}

	s.store.Invoices.Replace(append([]domain.Invoice{invoice}, invoices...))
	s.persist.Put(docstore.CollectionInvoices, invoice.ID, invoice)
	return invoice, nil
}

// List returns all invoices, newest number first.
func (s *Service) List() []domain.Invoice {
	return s.store.Invoices.Get()
}

// Get returns the invoice with the given id.
func (s *Service) Get(id string) (domain.Invoice, error) {
	for _, inv := range s.store.Invoices.Get() {
		if inv.ID == id {
			return inv, nil
		}
	}
	return domain.Invoice{}, ErrInvoiceNotFound
}

// ToggleOrderStatus flips PENDING and RECEIVED. Flipping to RECEIVED
// materializes the line items into the product collection. The
// materialization is not guarded against repeats: toggling away and back
// receives the goods again.
func (s *Service) ToggleOrderStatus(id string) (domain.Invoice, error) {
	invoices := s.store.Invoices.Get()
	for i, inv := range invoices {
		if inv.ID != id {
			continue
		}
		if inv.OrderStatus == domain.OrderReceived {
			inv.OrderStatus = domain.OrderPending
		} else {
			inv.OrderStatus = domain.OrderReceived
		}
		invoices[i] = inv
		s.store.Invoices.Replace(invoices)
		s.persist.Put(docstore.CollectionInvoices, inv.ID, inv)
		if inv.OrderStatus == domain.OrderReceived {
			s.catalog.MaterializeReceipt(inv.CompanyID, inv.Items)
		}
		return inv, nil
	}
	return domain.Invoice{}, ErrInvoiceNotFound
}

// ShareLink builds the wa.me link carrying the Arabic invoice summary.
func (s *Service) ShareLink(id string) (string, error) {
	inv, err := s.Get(id)
	if err != nil {
		return "", err
	}
	// Amounts are grouped (1,250.00) through the locale printer. The invoice
	// number stays a plain integer.
	total := s.printer.Sprintf("%.2f", inv.TotalAmount)
	remaining := s.printer.Sprintf("%.2f", inv.RemainingBalance)
	text := fmt.Sprintf(
		"فاتورة رقم: %d\nالشركة: %s\nالإجمالي: %s ج.م\nالرصيد المتبقي: %s ج.م",
		inv.InvoiceNumber, inv.CompanyName, total, remaining,
	)
	return "https://wa.me/?text=" + url.QueryEscape(text), nil
}
