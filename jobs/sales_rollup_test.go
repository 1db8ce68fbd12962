package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/domain"
)

func seedTransaction(t *testing.T, docs docstore.Store, tx domain.Transaction) {
	t.Helper()
	data, err := json.Marshal(tx)
	require.NoError(t, err)
	require.NoError(t, docs.Upsert(context.Background(), docstore.CollectionTransactions, tx.ID, data))
}

func TestSalesRollupAggregatesOneDay(t *testing.T) {
	docs := docstore.NewMemory()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	seedTransaction(t, docs, domain.Transaction{ID: "a", Amount: 100, Timestamp: day.Add(9 * time.Hour), Type: domain.TransactionSale})
	seedTransaction(t, docs, domain.Transaction{ID: "b", Amount: 50, Timestamp: day.Add(20 * time.Hour), Type: domain.TransactionSale})
	seedTransaction(t, docs, domain.Transaction{ID: "c", Amount: 70, Timestamp: day.Add(12 * time.Hour), Type: domain.TransactionPurchase})
	seedTransaction(t, docs, domain.Transaction{ID: "d", Amount: 99, Timestamp: day.AddDate(0, 0, -1), Type: domain.TransactionSale})

	rollup := NewSalesRollup(docs, slog.Default(), nil)
	rollup.clock = func() time.Time { return day.AddDate(0, 0, 1) }

	task, err := NewSalesRollupTask(day)
	require.NoError(t, err)
	require.NoError(t, rollup.Handle(context.Background(), task))

	stored, err := docs.List(context.Background(), docstore.CollectionReports)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	var report SalesReport
	require.NoError(t, json.Unmarshal(stored[0].Data, &report))
	require.Equal(t, "sales-2024-03-10", report.ID)
	require.Equal(t, 150.0, report.SalesTotal)
	require.Equal(t, 2, report.TransactionCount)
}

func TestSalesRollupDefaultsToYesterday(t *testing.T) {
	docs := docstore.NewMemory()
	now := time.Date(2024, 3, 11, 0, 0, 5, 0, time.UTC)

	seedTransaction(t, docs, domain.Transaction{ID: "a", Amount: 42, Timestamp: now.AddDate(0, 0, -1), Type: domain.TransactionSale})

	rollup := NewSalesRollup(docs, slog.Default(), nil)
	rollup.clock = func() time.Time { return now }

	task, err := NewSalesRollupTask(time.Time{})
	require.NoError(t, err)
	require.NoError(t, rollup.Handle(context.Background(), task))

	stored, err := docs.List(context.Background(), docstore.CollectionReports)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "sales-2024-03-10", stored[0].ID)
}

func TestSalesRollupRerunOverwrites(t *testing.T) {
	docs := docstore.NewMemory()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, docs, domain.Transaction{ID: "a", Amount: 10, Timestamp: day.Add(time.Hour), Type: domain.TransactionSale})

	rollup := NewSalesRollup(docs, slog.Default(), nil)
	rollup.clock = func() time.Time { return day.AddDate(0, 0, 1) }

	task, err := NewSalesRollupTask(day)
	require.NoError(t, err)
	require.NoError(t, rollup.Handle(context.Background(), task))

	seedTransaction(t, docs, domain.Transaction{ID: "b", Amount: 5, Timestamp: day.Add(2 * time.Hour), Type: domain.TransactionSale})
	require.NoError(t, rollup.Handle(context.Background(), task))

	stored, err := docs.List(context.Background(), docstore.CollectionReports)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	var report SalesReport
	require.NoError(t, json.Unmarshal(stored[0].Data, &report))
	require.Equal(t, 15.0, report.SalesTotal)
}
