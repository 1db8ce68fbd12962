package notices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBoardExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewBoard(5 * time.Second)
	b.SetClock(func() time.Time { return now })

	b.Post("فشل الاتصال بالسحابة")
	require.Len(t, b.Active(), 1)

	now = now.Add(4 * time.Second)
	require.Len(t, b.Active(), 1)

	now = now.Add(2 * time.Second)
	require.Empty(t, b.Active())
}

func TestBoardKeepsOrder(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewBoard(0)
	b.SetClock(func() time.Time { return now })

	b.Post("first")
	b.Post("second")

	active := b.Active()
	require.Len(t, active, 2)
	require.Equal(t, "first", active[0].Message)
	require.Equal(t, "second", active[1].Message)
	require.NotEqual(t, active[0].ID, active[1].ID)
}
