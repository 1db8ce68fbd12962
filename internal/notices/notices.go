// Package notices holds transient user-visible banners. A notice posted
// after a failed remote write stays visible for a short interval and then
// expires on its own; nothing is ever rolled back because of one.
package notices

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 5 * time.Second

// Notice is one transient banner.
type Notice struct {
	ID       string    `json:"id"`
	Message  string    `json:"message"`
	PostedAt time.Time `json:"postedAt"`
}

// Board collects active notices and prunes expired ones on read.
type Board struct {
	mu    sync.Mutex
	ttl   time.Duration
	items []Notice
	clock func() time.Time
}

// NewBoard returns a Board with the given TTL; zero means DefaultTTL.
func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{ttl: ttl, clock: time.Now}
}

// SetClock overrides the time source, for tests.
func (b *Board) SetClock(clock func() time.Time) {
	b.mu.Lock()
	b.clock = clock
	b.mu.Unlock()
}

// Post adds a notice stamped with the current time.
func (b *Board) Post(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, Notice{
		ID:       uuid.NewString(),
		Message:  message,
		PostedAt: b.clock(),
	})
}

// Active returns the notices that have not yet expired, pruning the rest.
func (b *Board) Active() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.clock()
	kept := b.items[:0]
	for _, n := range b.items {
		if now.Sub(n.PostedAt) < b.ttl {
			kept = append(kept, n)
		}
	}
	b.items = kept
	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}
