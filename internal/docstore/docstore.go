// Package docstore abstracts the remote document database: per-collection
// documents keyed by entity id, with live snapshot subscriptions. The
// application treats it as a reliable, eventually-consistent service;
// everything else (optimistic local state, seeding, failure notices) lives
// in the reconcile package on top of it.
package docstore

import (
	"context"
	"encoding/json"
	"sort"
)

// Collection names as stored remotely.
const (
	CollectionUsers        = "users"
	CollectionProducts     = "products"
	CollectionCompanies    = "companies"
	CollectionInvoices     = "invoices"
	CollectionTransactions = "transactions"
	CollectionConfig       = "config"
	CollectionReports      = "reports"

	// SettingsDocID is the id of the settings singleton inside config.
	SettingsDocID = "settings"
)

// Document is one stored record: its id and raw JSON body.
type Document struct {
	ID   string
	Data json.RawMessage
}

// SnapshotFunc receives a full, authoritative snapshot of a collection.
type SnapshotFunc func(docs []Document)

// Store is the consumed document-store interface. Subscribe delivers the
// current snapshot immediately and a fresh full snapshot after every
// change, sequentially per subscription; the returned function cancels the
// subscription and is safe to call more than once. Snapshots list
// documents in id order.
type Store interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Upsert(ctx context.Context, collection, id string, data []byte) error
	Delete(ctx context.Context, collection, id string) error
	Subscribe(ctx context.Context, collection string, fn SnapshotFunc) (func(), error)
}

func sortDocs(docs []Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
}
