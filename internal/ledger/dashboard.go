package ledger

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/martpos/martpos/internal/domain"
)

// lowStockThreshold marks a product as running out.
const lowStockThreshold = 10

// Dashboard carries the landing-page stat cards plus the two side lists.
type Dashboard struct {
	DailySales     float64          `json:"dailySales"`
	ProductCount   int              `json:"productCount"`
	PendingOrders  int              `json:"pendingOrders"`
	CompanyCount   int              `json:"companyCount"`
	LowStock       []domain.Product `json:"lowStock"`
	RecentInvoices []domain.Invoice `json:"recentInvoices"`
}

// Dashboard assembles the overview sections concurrently. Each section
// reads its own collection, so the sections never contend.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.DailySales = domain.DailySalesTotal(s.store.Transactions.Get(), s.clock())
		return nil
	})

	g.Go(func() error {
		products := s.store.Products.Get()
		d.ProductCount = len(products)
		low := make([]domain.Product, 0)
		for _, p := range products {
			if p.Stock < lowStockThreshold {
				low = append(low, p)
			}
		}
		d.LowStock = low
		return nil
	})

	g.Go(func() error {
		invoices := s.store.Invoices.Get()
		for _, inv := range invoices {
			if inv.OrderStatus == domain.OrderPending {
				d.PendingOrders++
			}
		}
		recent := invoices
		if len(recent) > 5 {
			recent = recent[:5]
		}
		d.RecentInvoices = recent
		return nil
	})

	g.Go(func() error {
		d.CompanyCount = len(s.store.Companies.Get())
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
