package invoicing

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/martpos/martpos/internal/catalog"
	"github.com/martpos/martpos/internal/domain"
	"github.com/martpos/martpos/internal/store"
)

type recordingPersistence struct {
	puts []string
}

func (p *recordingPersistence) Put(collection, id string, doc any) {
	p.puts = append(p.puts, collection+"/"+id)
}

func (p *recordingPersistence) Remove(collection, id string) {}

func newTestService(t *testing.T) (*Service, *store.Store, *recordingPersistence) {
	t.Helper()
	st := store.New()
	st.Settings.Set(domain.DefaultSettings())
	st.Companies.Replace([]domain.Company{{ID: "100", Name: "شركة النور", Code: "100"}})

	persist := &recordingPersistence{}
	cat := catalog.NewService(st, persist)
	svc := NewService(st, persist, cat)
	svc.clock = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("inv-%d", seq)
	}
	return svc, st, persist
}

func TestCreateComputesDerivedFields(t *testing.T) {
	svc, _, persist := newTestService(t)

	inv, err := svc.Create(CreateInvoiceInput{
		CompanyID: "100",
		Items: []ItemInput{
			{ProductID: "p1", Name: "أرز", Quantity: 10, UnitCost: 10},
			{ProductID: "p2", Name: "سكر", Quantity: 3, UnitCost: 10},
		},
		PaidAmount: 100,
	})
	require.NoError(t, err)

	require.Equal(t, 1001, inv.InvoiceNumber)
	require.Equal(t, "شركة النور", inv.CompanyName)
	require.Equal(t, 130.0, inv.TotalAmount)
	require.Equal(t, 30.0, inv.RemainingBalance)
	require.Equal(t, domain.InvoicePartial, inv.Status)
	require.Equal(t, domain.InvoicePurchase, inv.Type)
	require.Equal(t, domain.OrderPending, inv.OrderStatus)
	require.Equal(t, inv.CreatedAt.AddDate(0, 0, 7), inv.ExpiryDate)
	// Selling price falls back to cost plus the default margin.
	require.Equal(t, 11.5, inv.Items[0].SellingPrice)
	require.Equal(t, 100.0, inv.Items[0].Total)
	require.Len(t, persist.puts, 1)
}

func TestCreateFullyPaidWhenNothingRemains(t *testing.T) {
	svc, _, _ := newTestService(t)

	inv, err := svc.Create(CreateInvoiceInput{
		CompanyID:  "100",
		Items:      []ItemInput{{ProductID: "p1", Quantity: 2, UnitCost: 50}},
		PaidAmount: 100,
	})
	require.NoError(t, err)
	require.Equal(t, domain.InvoiceFullyPaid, inv.Status)
	require.Zero(t, inv.RemainingBalance)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(CreateInvoiceInput{Items: []ItemInput{{Quantity: 1}}})
	require.ErrorIs(t, err, ErrCompanyRequired)

	_, err = svc.Create(CreateInvoiceInput{CompanyID: "100"})
	require.ErrorIs(t, err, ErrItemsRequired)
}

func TestCreatePrependsAndNumbersFromCount(t *testing.T) {
	svc, st, _ := newTestService(t)

	first, err := svc.Create(CreateInvoiceInput{
		CompanyID: "100",
		Items:     []ItemInput{{ProductID: "p1", Quantity: 1, UnitCost: 5}},
	})
	require.NoError(t, err)
	second, err := svc.Create(CreateInvoiceInput{
		CompanyID: "100",
		Items:     []ItemInput{{ProductID: "p2", Quantity: 1, UnitCost: 5}},
	})
	require.NoError(t, err)

	require.Equal(t, 1001, first.InvoiceNumber)
	require.Equal(t, 1002, second.InvoiceNumber)

	invoices := st.Invoices.Get()
	require.Equal(t, second.ID, invoices[0].ID)
	require.Equal(t, first.ID, invoices[1].ID)
}

func TestToggleOrderStatusMaterializesProducts(t *testing.T) {
	svc, st, _ := newTestService(t)

	inv, err := svc.Create(CreateInvoiceInput{
		CompanyID: "100",
		Items: []ItemInput{
			{ProductID: "p1", Name: "أرز", Barcode: "622100", Quantity: 10, UnitCost: 10},
			{ProductID: "p2", Name: "سكر", Quantity: 3, UnitCost: 10},
		},
	})
	require.NoError(t, err)

	toggled, err := svc.ToggleOrderStatus(inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderReceived, toggled.OrderStatus)

	products := st.Products.Get()
	require.Len(t, products, 2)
	require.Equal(t, 10, products[0].Stock)
	require.Equal(t, "622100", products[0].Barcode)
	require.Equal(t, "N/A", products[1].Barcode)
	require.Equal(t, "100", products[0].CompanyID)
}

func TestToggleBackAndForthDuplicatesProducts(t *testing.T) {
	svc, st, _ := newTestService(t)

	inv, err := svc.Create(CreateInvoiceInput{
		CompanyID: "100",
		Items:     []ItemInput{{ProductID: "p1", Name: "أرز", Quantity: 4, UnitCost: 10}},
	})
	require.NoError(t, err)

	_, err = svc.ToggleOrderStatus(inv.ID)
	require.NoError(t, err)
	back, err := svc.ToggleOrderStatus(inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderPending, back.OrderStatus)
	_, err = svc.ToggleOrderStatus(inv.ID)
	require.NoError(t, err)

	// Each receipt appends a fresh copy of every line item.
	require.Len(t, st.Products.Get(), 2)
}

func TestToggleOrderStatusUnknownID(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.ToggleOrderStatus("missing")
	require.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestShareLink(t *testing.T) {
	svc, _, _ := newTestService(t)

	inv, err := svc.Create(CreateInvoiceInput{
		CompanyID:  "100",
		Items:      []ItemInput{{ProductID: "p1", Quantity: 100, UnitCost: 12.5}},
		PaidAmount: 250,
	})
	require.NoError(t, err)

	link, err := svc.ShareLink(inv.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://wa.me/?text="))

	decoded, err := url.QueryUnescape(strings.TrimPrefix(link, "https://wa.me/?text="))
	require.NoError(t, err)
	require.Contains(t, decoded, "فاتورة رقم: 1001")
	require.Contains(t, decoded, "الشركة: شركة النور")
	require.Contains(t, decoded, "الإجمالي: 1,250.00 ج.م")
	require.Contains(t, decoded, "الرصيد المتبقي: 1,000.00 ج.م")

	_, err = svc.ShareLink("missing")
	require.ErrorIs(t, err, ErrInvoiceNotFound)
}
