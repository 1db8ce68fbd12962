package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/martpos/martpos/internal/domain"
)

func TestCollectionReplaceAndGet(t *testing.T) {
	c := NewCollection[domain.Company]()
	require.Empty(t, c.Get())

	c.Replace([]domain.Company{{ID: "100", Name: "A"}, {ID: "101", Name: "B"}})
	require.Equal(t, 2, c.Len())

	// Mutating the returned slice must not leak into the collection.
	got := c.Get()
	got[0].Name = "mutated"
	require.Equal(t, "A", c.Get()[0].Name)
}

func TestCollectionReplaceLaterCallWins(t *testing.T) {
	c := NewCollection[domain.Company]()
	c.Replace([]domain.Company{{ID: "100"}})
	c.Replace([]domain.Company{{ID: "200"}})
	got := c.Get()
	require.Len(t, got, 1)
	require.Equal(t, "200", got[0].ID)
}

func TestCollectionOnChangeOrderedDelivery(t *testing.T) {
	c := NewCollection[domain.Product]()

	var mu sync.Mutex
	var seen [][]string
	unsub := c.OnChange(func(items []domain.Product) {
		ids := make([]string, 0, len(items))
		for _, p := range items {
			ids = append(ids, p.ID)
		}
		mu.Lock()
		seen = append(seen, ids)
		mu.Unlock()
	})

	c.Replace([]domain.Product{{ID: "a"}})
	c.Replace([]domain.Product{{ID: "a"}, {ID: "b"}})

	mu.Lock()
	require.Equal(t, [][]string{{"a"}, {"a", "b"}}, seen)
	mu.Unlock()

	unsub()
	unsub() // idempotent
	c.Replace(nil)

	mu.Lock()
	require.Len(t, seen, 2)
	mu.Unlock()
}

func TestSingletonSetAndSubscribe(t *testing.T) {
	s := NewSingleton(domain.DefaultSettings())
	require.Equal(t, 15.0, s.Get().ProfitMargin)

	var got domain.Settings
	unsub := s.OnChange(func(v domain.Settings) { got = v })
	s.Set(domain.Settings{AppName: "متجري", ProfitMargin: 20})
	require.Equal(t, 20.0, got.ProfitMargin)
	unsub()
}

func TestNewStoreDefaults(t *testing.T) {
	st := New()
	require.Empty(t, st.Users.Get())
	require.Empty(t, st.Invoices.Get())
	require.Equal(t, domain.DefaultSettings(), st.Settings.Get())
}
