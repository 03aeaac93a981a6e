package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"mgc-projects-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGateway is an in-memory Gateway double. Any of the funcs may be nil, in
// which case the call succeeds with zero values.
type stubGateway struct {
	listFn   func(ctx context.Context) ([]models.ProjectRow, error)
	createFn func(ctx context.Context, payload models.ProjectRow) (models.ProjectRow, error)
	updateFn func(ctx context.Context, id int64, payload models.ProjectRow) (models.ProjectRow, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (g *stubGateway) List(ctx context.Context) ([]models.ProjectRow, error) {
	if g.listFn == nil {
		return nil, nil
	}
	return g.listFn(ctx)
}

func (g *stubGateway) Create(ctx context.Context, payload models.ProjectRow) (models.ProjectRow, error) {
	if g.createFn == nil {
		return payload, nil
	}
	return g.createFn(ctx, payload)
}

func (g *stubGateway) Update(ctx context.Context, id int64, payload models.ProjectRow) (models.ProjectRow, error) {
	if g.updateFn == nil {
		return payload, nil
	}
	return g.updateFn(ctx, id, payload)
}

func (g *stubGateway) Delete(ctx context.Context, id int64) error {
	if g.deleteFn == nil {
		return nil
	}
	return g.deleteFn(ctx, id)
}

// memMirror records Put calls.
type memMirror struct {
	puts map[string][][]byte
}

func newMemMirror() *memMirror {
	return &memMirror{puts: map[string][][]byte{}}
}

func (m *memMirror) Put(key string, value []byte) error {
	m.puts[key] = append(m.puts[key], value)
	return nil
}

func str(v string) *string { return &v }

func rowNamed(id int64, name string) models.ProjectRow {
	return models.ProjectRow{ID: id, Name: str(name)}
}

func TestRefreshReplacesWholesale(t *testing.T) {
	gw := &stubGateway{
		listFn: func(context.Context) ([]models.ProjectRow, error) {
			return []models.ProjectRow{rowNamed(1, "a"), rowNamed(2, "b")}, nil
		},
	}
	col := NewCollection(gw, nil)
	col.Add(models.Project{ID: 99, Name: "stale"})

	require.NoError(t, col.Refresh(context.Background()))

	ps := col.Projects()
	require.Len(t, ps, 2)
	assert.Equal(t, "a", ps[0].Name)
	assert.Equal(t, "b", ps[1].Name)
	assert.False(t, col.Loading())
}

func TestRefreshFailureLeavesPriorState(t *testing.T) {
	boom := errors.New("network down")
	gw := &stubGateway{
		listFn: func(context.Context) ([]models.ProjectRow, error) {
			return nil, boom
		},
	}
	col := NewCollection(gw, nil)
	col.Add(models.Project{ID: 1, Name: "keep"})

	err := col.Refresh(context.Background())

	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, col.Len())
	p, ok := col.ByID(1)
	require.True(t, ok)
	assert.Equal(t, "keep", p.Name)
	assert.False(t, col.Loading())
}

func TestReplaceKeepsSingleEntryPerID(t *testing.T) {
	col := NewCollection(&stubGateway{}, nil)
	col.Add(models.Project{ID: 1, Name: "one"})
	col.Add(models.Project{ID: 2, Name: "two"})

	col.Replace(models.Project{ID: 1, Name: "uno"})

	require.Equal(t, 2, col.Len())
	p, ok := col.ByID(1)
	require.True(t, ok)
	assert.Equal(t, "uno", p.Name)
}

func TestRemoveByIDIsIdempotent(t *testing.T) {
	col := NewCollection(&stubGateway{}, nil)
	col.Add(models.Project{ID: 1, Name: "one"})

	col.RemoveByID(42) // absent id: no change, no panic
	require.Equal(t, 1, col.Len())

	col.RemoveByID(1)
	col.RemoveByID(1)
	assert.Equal(t, 0, col.Len())
}

func TestDeleteFailureKeepsEntry(t *testing.T) {
	gw := &stubGateway{
		deleteFn: func(context.Context, int64) error {
			return errors.New("rejected")
		},
	}
	col := NewCollection(gw, nil)
	col.Add(models.Project{ID: 1, Name: "one"})

	err := col.Delete(context.Background(), 1)

	require.Error(t, err)
	_, ok := col.ByID(1)
	assert.True(t, ok)
}

func TestDeleteRemovesEntry(t *testing.T) {
	col := NewCollection(&stubGateway{}, nil)
	col.Add(models.Project{ID: 1, Name: "one"})

	require.NoError(t, col.Delete(context.Background(), 1))
	assert.Equal(t, 0, col.Len())

	// Deleting an id the collection never held still succeeds.
	require.NoError(t, col.Delete(context.Background(), 1))
}

func TestAreasDistinctSorted(t *testing.T) {
	col := NewCollection(&stubGateway{}, nil)
	col.Add(models.Project{ID: 1, AreaSolicitante: "TI"})
	col.Add(models.Project{ID: 2, AreaSolicitante: "Financeiro"})
	col.Add(models.Project{ID: 3, AreaSolicitante: "TI"})
	col.Add(models.Project{ID: 4})

	assert.Equal(t, []string{"Financeiro", "TI"}, col.Areas())
}

func TestEveryChangeWritesMirror(t *testing.T) {
	mm := newMemMirror()
	gw := &stubGateway{
		listFn: func(context.Context) ([]models.ProjectRow, error) {
			return []models.ProjectRow{rowNamed(1, "a")}, nil
		},
	}
	col := NewCollection(gw, mm)

	require.NoError(t, col.Refresh(context.Background()))
	col.Add(models.Project{ID: 2, Name: "b"})
	col.Replace(models.Project{ID: 2, Name: "bee"})
	col.RemoveByID(1)

	snaps := mm.puts[MirrorKey]
	require.Len(t, snaps, 4)

	var last []models.Project
	require.NoError(t, json.Unmarshal(snaps[len(snaps)-1], &last))
	require.Len(t, last, 1)
	assert.Equal(t, "bee", last[0].Name)
}
