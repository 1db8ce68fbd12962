package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Redis stores each collection in a hash (docs:<collection>, field = id)
// and publishes change events on docs:changed:<collection>. Subscribers
// re-list the collection on every event, so each delivery is a full
// snapshot.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, logger *slog.Logger) *Redis {
	return &Redis{client: client, logger: logger}
}

func redisKey(collection string) string     { return "docs:" + collection }
func redisChannel(collection string) string { return "docs:changed:" + collection }

// List returns the collection's documents in id order.
func (r *Redis) List(ctx context.Context, collection string) ([]Document, error) {
	raw, err := r.client.HGetAll(ctx, redisKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
	}
	docs := make([]Document, 0, len(raw))
	for id, data := range raw {
		docs = append(docs, Document{ID: id, Data: []byte(data)})
	}
	sortDocs(docs)
	return docs, nil
}

// Upsert writes the document, then publishes a change event.
func (r *Redis) Upsert(ctx context.Context, collection, id string, data []byte) error {
	if err := r.client.HSet(ctx, redisKey(collection), id, data).Err(); err != nil {
		return fmt.Errorf("docstore: upsert %s/%s: %w", collection, id, err)
	}
	if err := r.client.Publish(ctx, redisChannel(collection), id).Err(); err != nil {
		r.logger.Warn("docstore publish", slog.String("collection", collection), slog.Any("error", err))
	}
	return nil
}

// Delete removes the document, then publishes a change event.
func (r *Redis) Delete(ctx context.Context, collection, id string) error {
	if err := r.client.HDel(ctx, redisKey(collection), id).Err(); err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", collection, id, err)
	}
	if err := r.client.Publish(ctx, redisChannel(collection), id).Err(); err != nil {
		r.logger.Warn("docstore publish", slog.String("collection", collection), slog.Any("error", err))
	}
	return nil
}

// Subscribe delivers the current snapshot, then re-lists and re-delivers
// after every published change. Deliveries run on a single goroutine per
// subscription, so they never overlap.
func (r *Redis) Subscribe(ctx context.Context, collection string, fn SnapshotFunc) (func(), error) {
	// Registration happens before the initial List. A write landing in
	// between is then covered by its own event; the extra re-list it
	// triggers is harmless under full-snapshot delivery. Receive forces
	// the SUBSCRIBE round-trip so the registration has taken effect.
	pubsub := r.client.Subscribe(ctx, redisChannel(collection))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("docstore: subscribe %s: %w", collection, err)
	}

	docs, err := r.List(ctx, collection)
	if err != nil {
		_ = pubsub.Close()
		return nil, err
	}
	fn(docs)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range pubsub.Channel() {
			snapshot, err := r.List(ctx, collection)
			if err != nil {
				// Keep the last-known value; the collection degrades
				// gracefully but silently.
				r.logger.Warn("docstore snapshot", slog.String("collection", collection), slog.Any("error", err))
				continue
			}
			fn(snapshot)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := pubsub.Close(); err != nil {
				r.logger.Warn("docstore unsubscribe", slog.String("collection", collection), slog.Any("error", err))
			}
			<-done
		})
	}, nil
}
