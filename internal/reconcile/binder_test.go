package reconcile

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/domain"
	"github.com/martpos/martpos/internal/notices"
	"github.com/martpos/martpos/internal/store"
)

func newBinderFixture(t *testing.T) (*store.Store, *docstore.Memory, *Persister, *Binder) {
	t.Helper()
	st := store.New()
	remote := docstore.NewMemory()
	board := notices.NewBoard(0)
	persister := NewPersister(remote, board, slog.Default(), nil)
	t.Cleanup(persister.Close)
	binder := NewBinder(st, remote, persister, slog.Default())
	return st, remote, persister, binder
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

func TestBinderSeedsDefaultAdmin(t *testing.T) {
	st, remote, _, binder := newBinderFixture(t)
	ctx := context.Background()

	teardown, err := binder.Start(ctx)
	require.NoError(t, err)
	defer teardown()

	users := st.Users.Get()
	require.Len(t, users, 1)
	require.Equal(t, domain.DefaultAdmin(), users[0])

	// The seed is written back remotely as well.
	waitFor(t, func() bool {
		docs, err := remote.List(ctx, docstore.CollectionUsers)
		return err == nil && len(docs) == 1 && docs[0].ID == domain.AdminUserID
	})
}

func TestBinderSeedsDefaultSettings(t *testing.T) {
	st, remote, _, binder := newBinderFixture(t)
	ctx := context.Background()

	teardown, err := binder.Start(ctx)
	require.NoError(t, err)
	defer teardown()

	require.Equal(t, domain.DefaultSettings(), st.Settings.Get())
	waitFor(t, func() bool {
		docs, err := remote.List(ctx, docstore.CollectionConfig)
		return err == nil && len(docs) == 1 && docs[0].ID == docstore.SettingsDocID
	})
}

func TestBinderKeepsExistingSettings(t *testing.T) {
	st, remote, _, binder := newBinderFixture(t)
	ctx := context.Background()

	stored := domain.Settings{AppName: "متجري", ProfitMargin: 20}
	data, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, remote.Upsert(ctx, docstore.CollectionConfig, docstore.SettingsDocID, data))

	teardown, err := binder.Start(ctx)
	require.NoError(t, err)
	defer teardown()

	require.Equal(t, stored, st.Settings.Get())
}

func TestBinderSortsInvoicesNewestFirst(t *testing.T) {
	st, remote, _, binder := newBinderFixture(t)
	ctx := context.Background()

	for _, inv := range []domain.Invoice{
		{ID: "a", InvoiceNumber: 1001},
		{ID: "b", InvoiceNumber: 1003},
		{ID: "c", InvoiceNumber: 1002},
	} {
		data, err := json.Marshal(inv)
		require.NoError(t, err)
		require.NoError(t, remote.Upsert(ctx, docstore.CollectionInvoices, inv.ID, data))
	}

	teardown, err := binder.Start(ctx)
	require.NoError(t, err)
	defer teardown()

	invoices := st.Invoices.Get()
	require.Len(t, invoices, 3)
	require.Equal(t, 1003, invoices[0].InvoiceNumber)
	require.Equal(t, 1002, invoices[1].InvoiceNumber)
	require.Equal(t, 1001, invoices[2].InvoiceNumber)
}

func TestBinderSnapshotOverwritesLocalState(t *testing.T) {
	st, remote, _, binder := newBinderFixture(t)
	ctx := context.Background()

	teardown, err := binder.Start(ctx)
	require.NoError(t, err)
	defer teardown()

	// Optimistic local value not yet persisted.
	st.Products.Replace([]domain.Product{{ID: "local-only"}})

	data, err := json.Marshal(domain.Product{ID: "remote-1", Name: "صنف"})
	require.NoError(t, err)
	require.NoError(t, remote.Upsert(ctx, docstore.CollectionProducts, "remote-1", data))

	waitFor(t, func() bool {
		products := st.Products.Get()
		return len(products) == 1 && products[0].ID == "remote-1"
	})
}

func TestBinderSkipsUndecodableDocuments(t *testing.T) {
	st, remote, _, binder := newBinderFixture(t)
	ctx := context.Background()

	require.NoError(t, remote.Upsert(ctx, docstore.CollectionCompanies, "bad", []byte(`{not json`)))
	data, err := json.Marshal(domain.Company{ID: "100", Name: "شركة"})
	require.NoError(t, err)
	require.NoError(t, remote.Upsert(ctx, docstore.CollectionCompanies, "100", data))

	teardown, err := binder.Start(ctx)
	require.NoError(t, err)
	defer teardown()

	companies := st.Companies.Get()
	require.Len(t, companies, 1)
	require.Equal(t, "100", companies[0].ID)
}
