// Package ledger records immutable sale/purchase transactions and
// aggregates them by period for the analytics views.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/domain"
	"github.com/martpos/martpos/internal/platform/httpx"
	"github.com/martpos/martpos/internal/store"
)

var (
	// ErrAmountRequired rejects zero or negative amounts.
	ErrAmountRequired = fmt.Errorf("%w: amount must be positive", httpx.ErrValidation)
	// ErrBadType rejects unknown transaction types.
	ErrBadType = fmt.Errorf("%w: type must be SALE or PURCHASE", httpx.ErrValidation)
	// ErrBadPeriod rejects unknown aggregation periods.
	ErrBadPeriod = fmt.Errorf("%w: period must be DAY, MONTH, YEAR or ALL", httpx.ErrValidation)
)

// Period selects the aggregation window for summaries.
type Period string

const (
	PeriodDay   Period = "DAY"
	PeriodMonth Period = "MONTH"
	PeriodYear  Period = "YEAR"
	PeriodAll   Period = "ALL"
)

// ParsePeriod maps the wire value onto a Period. TOTAL is accepted as an
// alias of ALL; it is what the stored dashboards send. Empty defaults to ALL.
func ParsePeriod(raw string) (Period, error) {
	switch raw {
	case "", "ALL", "TOTAL":
		return PeriodAll, nil
	case "DAY":
		return PeriodDay, nil
	case "MONTH":
		return PeriodMonth, nil
	case "YEAR":
		return PeriodYear, nil
	default:
		return "", ErrBadPeriod
	}
}

// Persistence is the fire-and-forget remote write port.
type Persistence interface {
	Put(collection, id string, doc any)
}

// Summary is the per-period sales/purchases aggregate.
type Summary struct {
	Period    Period  `json:"period"`
	Sales     float64 `json:"sales"`
	Purchases float64 `json:"purchases"`
	Count     int     `json:"count"`
}

// Service coordinates transaction recording and aggregation.
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

// Record appends a transaction. Transactions are never edited or deleted
// after this point.
func (s *Service) Record(amount float64, txType domain.TransactionType) (domain.Transaction, error) {
	if amount <= 0 {
		return domain.Transaction{}, ErrAmountRequired
	}
	if txType != domain.TransactionSale && txType != domain.TransactionPurchase {
		return domain.Transaction{}, ErrBadType
	}

	tx := domain.Transaction{
		ID:        s.newID(),
		Amount:    amount,
		Timestamp: s.clock(),
		Type:      txType,
	}
	s.store.Transactions.Replace(append(s.store.Transactions.Get(), tx))
	s.persist.Put(docstore.CollectionTransactions, tx.ID, tx)
	return tx, nil
}

// List returns the transactions falling inside the period, relative to now.
func (s *Service) List(period Period) []domain.Transaction {
	now := s.clock()
	all := s.store.Transactions.Get()
	matched := make([]domain.Transaction, 0, len(all))
	for _, tx := range all {
		if inPeriod(tx.Timestamp, period, now) {
			matched = append(matched, tx)
		}
	}
	return matched
}

// Summarize aggregates sales and purchases over the period.
func (s *Service) Summarize(period Period) Summary {
	summary := Summary{Period: period}
	for _, tx := range s.List(period) {
		summary.Count++
		switch tx.Type {
		case domain.TransactionSale:
			summary.Sales += tx.Amount
		case domain.TransactionPurchase:
			summary.Purchases += tx.Amount
		}
	}
	return summary
}

func inPeriod(ts time.Time, period Period, now time.Time) bool {
	ts = ts.In(now.Location())
	switch period {
	case PeriodDay:
		return domain.SameDay(ts, now)
	case PeriodMonth:
		return ts.Year() == now.Year() && ts.Month() == now.Month()
	case PeriodYear:
		return ts.Year() == now.Year()
	default:
		return true
	}
}
