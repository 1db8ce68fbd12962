// Package reconcile connects the in-process store to the remote document
// store: the Persister pushes local mutations out (optimistic,
// fire-and-forget), the Binder pulls authoritative snapshots in and seeds
// defaults on first load.
package reconcile

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/notices"
)

// writeFailureNotice mirrors the banner shown by the original client when
// a cloud write fails: data stays local and syncs later.
const writeFailureNotice = "فشل الاتصال بالسحابة. سيتم حفظ البيانات محلياً والمزامنة لاحقاً."

// FailureCounter counts failed remote writes, usually prometheus-backed.
type FailureCounter interface {
	IncRemoteWriteFailure(collection string)
}

type writeOp struct {
	collection string
	id         string
	data       []byte
	remove     bool
}

// Persister is the write-behind half of reconciliation. Put and Remove
// return immediately; a single worker applies writes in submission order.
// A failed write is logged, counted and posted to the notice board, never
// retried and never rolled back locally.
type Persister struct {
	remote  docstore.Store
	board   *notices.Board
	logger  *slog.Logger
	counter FailureCounter
	timeout time.Duration

	queue chan writeOp
	wg    sync.WaitGroup
	once  sync.Once
}

// NewPersister starts the write worker. counter may be nil.
func NewPersister(remote docstore.Store, board *notices.Board, logger *slog.Logger, counter FailureCounter) *Persister {
	p := &Persister{
		remote:  remote,
		board:   board,
		logger:  logger,
		counter: counter,
		timeout: 10 * time.Second,
		queue:   make(chan writeOp, 256),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *Persister) run() {
	defer p.wg.Done()
	for op := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		var err error
		if op.remove {
			err = p.remote.Delete(ctx, op.collection, op.id)
		} else {
			err = p.remote.Upsert(ctx, op.collection, op.id, op.data)
		}
		cancel()
		if err != nil {
			p.logger.Error("remote write failed",
				slog.String("collection", op.collection),
				slog.String("id", op.id),
				slog.Any("error", err))
			if p.counter != nil {
				p.counter.IncRemoteWriteFailure(op.collection)
			}
			p.board.Post(writeFailureNotice)
		}
	}
}

// Put marshals doc and queues an upsert. A marshal failure is reported the
// same way as a remote failure; the caller's local state already holds the
// value either way.
func (p *Persister) Put(collection, id string, doc any) {
	data, err := json.Marshal(doc)
	if err != nil {
		p.logger.Error("marshal document",
			slog.String("collection", collection),
			slog.String("id", id),
			slog.Any("error", err))
		p.board.Post(writeFailureNotice)
		return
	}
	p.queue <- writeOp{collection: collection, id: id, data: data}
}

// Remove queues a delete.
func (p *Persister) Remove(collection, id string) {
	p.queue <- writeOp{collection: collection, id: id, remove: true}
}

// Close drains the queue and stops the worker.
func (p *Persister) Close() {
	p.once.Do(func() {
		close(p.queue)
	})
	p.wg.Wait()
}
