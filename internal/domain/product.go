package domain

import "time"

// Product is a catalog entry. Stock is a plain counter with no floor;
// negative values are representable and not rejected.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Barcode      string    `json:"barcode"`
	CompanyID    string    `json:"companyId"`
	UnitCost     float64   `json:"unitCost"`
	SellingPrice float64   `json:"sellingPrice"`
	Stock        int       `json:"stock"`
	Category     string    `json:"category,omitempty"`
	Unit         string    `json:"unit,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Company is a supplier. ID doubles as the human-facing code, a numeric
// string allocated from 100 upward.
type Company struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Code               string  `json:"code"`
	OutstandingBalance float64 `json:"outstandingBalance"`
}
