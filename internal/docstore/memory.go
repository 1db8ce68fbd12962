package docstore

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Store. It backs the disconnected variant of the
// application and the bulk of the test suite.
type Memory struct {
	mu      sync.Mutex
	data    map[string]map[string][]byte
	subs    map[string]map[int]SnapshotFunc
	nextSub int

	// failUpserts makes every write fail; toggled by tests to exercise the
	// fire-and-forget failure path.
	failUpserts bool
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]map[string][]byte),
		subs: make(map[string]map[int]SnapshotFunc),
	}
}

// FailUpserts toggles simulated write failures.
func (m *Memory) FailUpserts(fail bool) {
	m.mu.Lock()
	m.failUpserts = fail
	m.mu.Unlock()
}

// List returns the collection's documents in id order.
func (m *Memory) List(ctx context.Context, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(collection), nil
}

func (m *Memory) snapshotLocked(collection string) []Document {
	docs := make([]Document, 0, len(m.data[collection]))
	for id, data := range m.data[collection] {
		body := make([]byte, len(data))
		copy(body, data)
		docs = append(docs, Document{ID: id, Data: body})
	}
	sortDocs(docs)
	return docs
}

// Upsert stores the document and fans the new snapshot out to subscribers.
func (m *Memory) Upsert(ctx context.Context, collection, id string, data []byte) error {
	m.mu.Lock()
	if m.failUpserts {
		m.mu.Unlock()
		return ErrUnavailable
	}
	if m.data[collection] == nil {
		m.data[collection] = make(map[string][]byte)
	}
	body := make([]byte, len(data))
	copy(body, data)
	m.data[collection][id] = body
	docs := m.snapshotLocked(collection)
	fns := m.subscribersLocked(collection)
	m.mu.Unlock()

	for _, fn := range fns {
		fn(docs)
	}
	return nil
}

// Delete removes the document and fans the new snapshot out to subscribers.
func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	delete(m.data[collection], id)
	docs := m.snapshotLocked(collection)
	fns := m.subscribersLocked(collection)
	m.mu.Unlock()

	for _, fn := range fns {
		fn(docs)
	}
	return nil
}

func (m *Memory) subscribersLocked(collection string) []SnapshotFunc {
	fns := make([]SnapshotFunc, 0, len(m.subs[collection]))
	ids := make([]int, 0, len(m.subs[collection]))
	for id := range m.subs[collection] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, m.subs[collection][id])
	}
	return fns
}

// Subscribe registers fn and delivers the current snapshot before returning.
func (m *Memory) Subscribe(ctx context.Context, collection string, fn SnapshotFunc) (func(), error) {
	m.mu.Lock()
	if m.subs[collection] == nil {
		m.subs[collection] = make(map[int]SnapshotFunc)
	}
	id := m.nextSub
	m.nextSub++
	m.subs[collection][id] = fn
	docs := m.snapshotLocked(collection)
	m.mu.Unlock()

	fn(docs)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[collection], id)
			m.mu.Unlock()
		})
	}, nil
}
