package reconcile

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/domain"
	"github.com/martpos/martpos/internal/store"
)

// Binder subscribes to every remote collection and replaces the matching
// local collection wholesale on each snapshot. The last snapshot always
// wins, including over optimistic local changes that have not round-tripped
// yet. Empty users and missing settings are seeded with defaults.
type Binder struct {
	store     *store.Store
	remote    docstore.Store
	persister *Persister
	logger    *slog.Logger
}

// NewBinder builds a Binder.
func NewBinder(st *store.Store, remote docstore.Store, persister *Persister, logger *slog.Logger) *Binder {
	return &Binder{store: st, remote: remote, persister: persister, logger: logger}
}

// Start subscribes to all collections and returns a teardown function that
// cancels every subscription exactly once.
func (b *Binder) Start(ctx context.Context) (func(), error) {
	subs := []struct {
		collection string
		fn         docstore.SnapshotFunc
	}{
		{docstore.CollectionConfig, b.onConfig},
		{docstore.CollectionUsers, b.onUsers},
		{docstore.CollectionProducts, b.onProducts},
		{docstore.CollectionCompanies, b.onCompanies},
		{docstore.CollectionInvoices, b.onInvoices},
		{docstore.CollectionTransactions, b.onTransactions},
	}

	var unsubs []func()
	for _, sub := range subs {
		unsub, err := b.remote.Subscribe(ctx, sub.collection, sub.fn)
		if err != nil {
			// A failed subscription leaves that collection at its
			// last-known local value.
			b.logger.Error("subscribe collection",
				slog.String("collection", sub.collection),
				slog.Any("error", err))
			continue
		}
		unsubs = append(unsubs, unsub)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, unsub := range unsubs {
				unsub()
			}
		})
	}, nil
}

func decodeDocs[T any](b *Binder, collection string, docs []docstore.Document) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := json.Unmarshal(doc.Data, &v); err != nil {
			b.logger.Warn("decode document",
				slog.String("collection", collection),
				slog.String("id", doc.ID),
				slog.Any("error", err))
			continue
		}
		out = append(out, v)
	}
	return out
}

func (b *Binder) onConfig(docs []docstore.Document) {
	for _, doc := range docs {
		if doc.ID != docstore.SettingsDocID {
			continue
		}
		var settings domain.Settings
		if err := json.Unmarshal(doc.Data, &settings); err != nil {
			b.logger.Warn("decode settings", slog.Any("error", err))
			return
		}
		b.store.Settings.Set(settings)
		return
	}
	// No settings document yet: seed defaults locally and remotely.
	defaults := domain.DefaultSettings()
	b.store.Settings.Set(defaults)
	b.persister.Put(docstore.CollectionConfig, docstore.SettingsDocID, defaults)
}

func (b *Binder) onUsers(docs []docstore.Document) {
	users := decodeDocs[domain.User](b, docstore.CollectionUsers, docs)
	if len(users) == 0 {
		admin := domain.DefaultAdmin()
		b.store.Users.Replace([]domain.User{admin})
		b.persister.Put(docstore.CollectionUsers, admin.ID, admin)
		return
	}
	b.store.Users.Replace(users)
}

func (b *Binder) onProducts(docs []docstore.Document) {
	b.store.Products.Replace(decodeDocs[domain.Product](b, docstore.CollectionProducts, docs))
}

func (b *Binder) onCompanies(docs []docstore.Document) {
	b.store.Companies.Replace(decodeDocs[domain.Company](b, docstore.CollectionCompanies, docs))
}

func (b *Binder) onInvoices(docs []docstore.Document) {
	invoices := decodeDocs[domain.Invoice](b, docstore.CollectionInvoices, docs)
	// Newest first.
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].InvoiceNumber > invoices[j].InvoiceNumber
	})
	b.store.Invoices.Replace(invoices)
}

func (b *Binder) onTransactions(docs []docstore.Document) {
	b.store.Transactions.Replace(decodeDocs[domain.Transaction](b, docstore.CollectionTransactions, docs))
}
