package domain

import "time"

// InvoiceStatus tracks payment completeness.
type InvoiceStatus string

const (
	InvoiceFullyPaid InvoiceStatus = "FULLY_PAID"
	InvoicePartial   InvoiceStatus = "PARTIAL"
)

// InvoiceType distinguishes purchase invoices from order requests.
type InvoiceType string

const (
	InvoicePurchase InvoiceType = "PURCHASE"
	InvoiceOrder    InvoiceType = "ORDER"
)

// OrderStatus tracks goods receipt for an order.
type OrderStatus string

const (
	OrderPending  OrderStatus = "PENDING"
	OrderReceived OrderStatus = "RECEIVED"
)

// InvoiceItem is one line of an invoice. Total must equal
// quantity * unitCost after every edit.
type InvoiceItem struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Barcode      string  `json:"barcode"`
	Quantity     int     `json:"quantity"`
	UnitCost     float64 `json:"unitCost"`
	SellingPrice float64 `json:"sellingPrice"`
	Total        float64 `json:"total"`
}

// Invoice is a supplier purchase invoice / order request. CompanyName is a
// denormalized snapshot taken at creation time.
type Invoice struct {
	ID               string        `json:"id"`
	InvoiceNumber    int           `json:"invoiceNumber"`
	CompanyID        string        `json:"companyId"`
	CompanyName      string        `json:"companyName"`
	Items            []InvoiceItem `json:"items"`
	TotalAmount      float64       `json:"totalAmount"`
	PaidAmount       float64       `json:"paidAmount"`
	RemainingBalance float64       `json:"remainingBalance"`
	Status           InvoiceStatus `json:"status"`
	Type             InvoiceType   `json:"type"`
	OrderStatus      OrderStatus   `json:"orderStatus,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	ExpiryDate       time.Time     `json:"expiryDate"`
}
