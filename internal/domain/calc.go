package domain

import (
	"strconv"
	"time"
)

// ExpiryDays is how long an order request stays valid after creation.
const ExpiryDays = 7

// SellingPrice derives a retail price from a unit cost and a percentage
// margin: cost + cost*margin/100.
func SellingPrice(unitCost, marginPercent float64) float64 {
	return unitCost + unitCost*marginPercent/100
}

// LineTotal recomputes an item's total from its quantity and unit cost.
func LineTotal(item InvoiceItem) float64 {
	return float64(item.Quantity) * item.UnitCost
}

// InvoiceTotals sums item totals and derives the remaining balance and
// payment status for the given paid amount.
func InvoiceTotals(items []InvoiceItem, paid float64) (total, remaining float64, status InvoiceStatus) {
	for _, item := range items {
		total += item.Total
	}
	remaining = total - paid
	status = InvoicePartial
	if remaining == 0 {
		status = InvoiceFullyPaid
	}
	return total, remaining, status
}

// NextInvoiceNumber allocates the next invoice number from the current
// collection size. The number is not reserved ahead of save; two clients
// racing on the same count produce the same number.
func NextInvoiceNumber(existingCount int) int {
	return 1000 + existingCount + 1
}

// NextCompanyCode allocates the next supplier code from the current
// collection size. Same non-reservation hazard as NextInvoiceNumber.
func NextCompanyCode(existingCount int) string {
	return strconv.Itoa(100 + existingCount)
}

// InvoiceExpiry returns the creation time plus the request validity window.
func InvoiceExpiry(createdAt time.Time) time.Time {
	return createdAt.AddDate(0, 0, ExpiryDays)
}

// SameDay reports whether two instants fall on the same calendar day in
// the day's location.
func SameDay(t, day time.Time) bool {
	y1, m1, d1 := t.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DailySalesTotal sums SALE transactions whose timestamp falls on day.
func DailySalesTotal(transactions []Transaction, day time.Time) float64 {
	var sum float64
	for _, tx := range transactions {
		if tx.Type == TransactionSale && SameDay(tx.Timestamp, day) {
			sum += tx.Amount
		}
	}
	return sum
}
