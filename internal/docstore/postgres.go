package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps every collection in one JSONB table and fans change
// events out through LISTEN/NOTIFY. Each subscription holds a dedicated
// listening connection from the pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) *Postgres {
	return &Postgres{pool: pool, logger: logger}
}

const notifyChannel = "docs_changed"

// EnsureSchema creates the documents table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS documents (
	collection text NOT NULL,
	id         text NOT NULL,
	data       jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
)`
	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("docstore: ensure schema: %w", err)
	}
	return nil
}

// List returns the collection's documents in id order.
func (p *Postgres) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Data); err != nil {
			return nil, fmt.Errorf("docstore: scan %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
	}
	return docs, nil
}

// Upsert writes the document and notifies listeners for its collection.
func (p *Postgres) Upsert(ctx context.Context, collection, id string, data []byte) error {
	_, err := p.pool.Exec(ctx, `
INSERT INTO documents (collection, id, data, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		collection, id, data)
	if err != nil {
		return fmt.Errorf("docstore: upsert %s/%s: %w", collection, id, err)
	}
	p.notifyChange(ctx, collection)
	return nil
}

// Delete removes the document and notifies listeners for its collection.
func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", collection, id, err)
	}
	p.notifyChange(ctx, collection)
	return nil
}

func (p *Postgres) notifyChange(ctx context.Context, collection string) {
	if _, err := p.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, collection); err != nil {
		p.logger.Warn("docstore notify", slog.String("collection", collection), slog.Any("error", err))
	}
}

// Subscribe delivers the current snapshot, then re-lists after every
// notification for the collection.
func (p *Postgres) Subscribe(ctx context.Context, collection string, fn SnapshotFunc) (func(), error) {
	// LISTEN takes effect before the initial List. A write landing in
	// between is then covered by its own notification; the extra re-list
	// it triggers is harmless under full-snapshot delivery.
	subCtx, cancel := context.WithCancel(ctx)
	conn, err := p.pool.Acquire(subCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("docstore: subscribe %s: %w", collection, err)
	}
	if _, err := conn.Exec(subCtx, `LISTEN `+notifyChannel); err != nil {
		conn.Release()
		cancel()
		return nil, fmt.Errorf("docstore: subscribe %s: %w", collection, err)
	}

	docs, err := p.List(subCtx, collection)
	if err != nil {
		conn.Release()
		cancel()
		return nil, err
	}
	fn(docs)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer conn.Release()
		for {
			notification, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				if subCtx.Err() == nil {
					p.logger.Warn("docstore listen", slog.String("collection", collection), slog.Any("error", err))
				}
				return
			}
			if notification.Payload != collection {
				continue
			}
			snapshot, err := p.List(subCtx, collection)
			if err != nil {
				p.logger.Warn("docstore snapshot", slog.String("collection", collection), slog.Any("error", err))
				continue
			}
			fn(snapshot)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}
