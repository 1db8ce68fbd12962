package suppliers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/martpos/martpos/internal/docstore"
	"github.com/martpos/martpos/internal/store"
)

type recordingPersistence struct {
	puts []string
}

func (p *recordingPersistence) Put(collection, id string, doc any) {
	p.puts = append(p.puts, collection+"/"+id)
}

func TestCreateAllocatesSequentialCodes(t *testing.T) {
	st := store.New()
	persist := &recordingPersistence{}
	svc := NewService(st, persist)

	first, err := svc.Create("الشركة الأولى")
	require.NoError(t, err)
	require.Equal(t, "100", first.Code)
	require.Equal(t, first.Code, first.ID)
	require.Zero(t, first.OutstandingBalance)

	second, err := svc.Create("الشركة الثانية")
	require.NoError(t, err)
	require.Equal(t, "101", second.Code)

	require.Equal(t, []string{
		docstore.CollectionCompanies + "/100",
		docstore.CollectionCompanies + "/101",
	}, persist.puts)
	require.Len(t, svc.List(), 2)
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := NewService(store.New(), &recordingPersistence{})

	_, err := svc.Create("   ")
	require.ErrorIs(t, err, ErrNameRequired)
	require.Empty(t, svc.List())
}

func TestGet(t *testing.T) {
	svc := NewService(store.New(), &recordingPersistence{})
	created, err := svc.Create("مورد")
	require.NoError(t, err)

	got, ok := svc.Get(created.ID)
	require.True(t, ok)
	require.Equal(t, created, got)

	_, ok = svc.Get("999")
	require.False(t, ok)
}
