package domain

import "time"

// TransactionType classifies a financial movement.
type TransactionType string

const (
	TransactionSale     TransactionType = "SALE"
	TransactionPurchase TransactionType = "PURCHASE"
)

// Transaction is an immutable financial movement, aggregated by period
// for reporting.
type Transaction struct {
	ID        string          `json:"id"`
	Amount    float64         `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
	Type      TransactionType `json:"type"`
}

// Settings is the per-deployment singleton stored at config/settings.
type Settings struct {
	AppName      string  `json:"appName"`
	ProfitMargin float64 `json:"profitMargin"`
}

// DefaultSettings returns the values seeded when the settings document is
// absent on first load.
func DefaultSettings() Settings {
	return Settings{
		AppName:      "سوبر ماركت برو",
		ProfitMargin: 15,
	}
}
