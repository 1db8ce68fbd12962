package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/domain"
	"github.com/martpos/martpos/internal/notices"
)

type countingFailures struct {
	mu    sync.Mutex
	byCol map[string]int
}

func (c *countingFailures) IncRemoteWriteFailure(collection string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byCol == nil {
		c.byCol = make(map[string]int)
	}
	c.byCol[collection]++
}

func TestPersisterPutAndRemove(t *testing.T) {
	remote := docstore.NewMemory()
	board := notices.NewBoard(0)
	p := NewPersister(remote, board, slog.Default(), nil)

	p.Put(docstore.CollectionProducts, "p1", domain.Product{ID: "p1", Name: "صنف"})
	p.Put(docstore.CollectionProducts, "p2", domain.Product{ID: "p2"})
	p.Remove(docstore.CollectionProducts, "p1")
	p.Close()

	docs, err := remote.List(context.Background(), docstore.CollectionProducts)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "p2", docs[0].ID)
	require.Empty(t, board.Active())
}

func TestPersisterFailurePostsNoticeAndCounts(t *testing.T) {
	remote := docstore.NewMemory()
	remote.FailUpserts(true)
	board := notices.NewBoard(time.Minute)
	counter := &countingFailures{}
	p := NewPersister(remote, board, slog.Default(), counter)

	p.Put(docstore.CollectionUsers, "u1", domain.User{ID: "u1"})
	p.Close()

	active := board.Active()
	require.Len(t, active, 1)
	require.Equal(t, writeFailureNotice, active[0].Message)

	counter.mu.Lock()
	require.Equal(t, 1, counter.byCol[docstore.CollectionUsers])
	counter.mu.Unlock()

	// The write is not retried and nothing reached the remote store.
	remote.FailUpserts(false)
	docs, err := remote.List(context.Background(), docstore.CollectionUsers)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestPersisterAppliesWritesInOrder(t *testing.T) {
	remote := docstore.NewMemory()
	board := notices.NewBoard(0)
	p := NewPersister(remote, board, slog.Default(), nil)

	for i := 0; i < 10; i++ {
		p.Put(docstore.CollectionCompanies, "100", domain.Company{ID: "100", OutstandingBalance: float64(i)})
	}
	p.Close()

	docs, err := remote.List(context.Background(), docstore.CollectionCompanies)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Contains(t, string(docs[0].Data), `"outstandingBalance":9`)
}
