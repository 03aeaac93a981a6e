package dashboard

import (
	"context"
	"errors"
	"testing"

	"mgc-projects-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStartsClosedWithDefaults(t *testing.T) {
	s := NewSession(&stubGateway{}, NewCollection(&stubGateway{}, nil))

	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, DefaultFields(), s.Fields())
}

func TestStartCreateResetsFields(t *testing.T) {
	s := NewSession(&stubGateway{}, NewCollection(&stubGateway{}, nil))
	s.SetFields(Fields{Name: "leftover"})

	s.StartCreate()

	assert.Equal(t, StateCreating, s.State())
	f := s.Fields()
	assert.Equal(t, "", f.Name)
	assert.Equal(t, models.StatusInicio, f.Status)
	assert.Equal(t, models.PriorityMedia, f.Priority)
	assert.Equal(t, 0, f.Progresso)
	assert.Equal(t, "", f.Classificacao)
}

func TestStartEditCopiesTarget(t *testing.T) {
	s := NewSession(&stubGateway{}, NewCollection(&stubGateway{}, nil))

	// Editing a project with classificacao 5 shows the text "5" in the form.
	target := models.FromRow(models.ProjectRow{
		ID:            9,
		Name:          str("Portal"),
		Status:        str("andamento"),
		Classificacao: func() *float64 { v := 5.0; return &v }(),
	})
	s.StartEdit(target)

	assert.Equal(t, StateEditing, s.State())
	f := s.Fields()
	assert.Equal(t, "Portal", f.Name)
	assert.Equal(t, models.StatusAndamento, f.Status)
	assert.Equal(t, "5", f.Classificacao)
}

func TestCancelClosesAndResets(t *testing.T) {
	s := NewSession(&stubGateway{}, NewCollection(&stubGateway{}, nil))
	s.StartEdit(models.Project{ID: 3, Name: "x"})

	s.Cancel()

	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, DefaultFields(), s.Fields())
}

func TestSaveWhileClosedFails(t *testing.T) {
	s := NewSession(&stubGateway{}, NewCollection(&stubGateway{}, nil))

	_, err := s.Save(context.Background())

	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSaveCreateAddsToCollection(t *testing.T) {
	var captured models.ProjectRow
	gw := &stubGateway{
		createFn: func(_ context.Context, payload models.ProjectRow) (models.ProjectRow, error) {
			captured = payload
			payload.ID = 11
			return payload, nil
		},
	}
	col := NewCollection(gw, nil)
	s := NewSession(gw, col)

	s.StartCreate()
	s.SetFields(Fields{
		Name:          "Novo",
		Status:        models.StatusAndamento,
		Priority:      models.PriorityMedia,
		Classificacao: "",
	})

	p, err := s.Save(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(11), p.ID)
	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, DefaultFields(), s.Fields())

	// Persisted payload: empty classificacao becomes null, status passes through.
	assert.Nil(t, captured.Classificacao)
	require.NotNil(t, captured.Status)
	assert.Equal(t, "andamento", *captured.Status)

	got, ok := col.ByID(11)
	require.True(t, ok)
	assert.Equal(t, "Novo", got.Name)
}

func TestSaveEditReplacesInCollection(t *testing.T) {
	gw := &stubGateway{
		updateFn: func(_ context.Context, id int64, payload models.ProjectRow) (models.ProjectRow, error) {
			payload.ID = id
			return payload, nil
		},
	}
	col := NewCollection(gw, nil)
	col.Add(models.Project{ID: 5, Name: "old", Status: models.StatusInicio, Priority: models.PriorityMedia})
	s := NewSession(gw, col)

	s.StartEdit(models.Project{ID: 5, Name: "old", Status: models.StatusInicio, Priority: models.PriorityMedia})
	f := s.Fields()
	f.Name = "new"
	s.SetFields(f)

	p, err := s.Save(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
	require.Equal(t, 1, col.Len())
	got, ok := col.ByID(5)
	require.True(t, ok)
	assert.Equal(t, "new", got.Name)
}

func TestSaveFailureClosesAndLeavesCollection(t *testing.T) {
	gw := &stubGateway{
		updateFn: func(context.Context, int64, models.ProjectRow) (models.ProjectRow, error) {
			return models.ProjectRow{}, errors.New("constraint violation")
		},
	}
	col := NewCollection(gw, nil)
	before := models.Project{ID: 5, Name: "before", Status: models.StatusInicio, Priority: models.PriorityMedia}
	col.Add(before)
	s := NewSession(gw, col)

	s.StartEdit(before)
	f := s.Fields()
	f.Name = "after"
	s.SetFields(f)

	_, err := s.Save(context.Background())

	require.Error(t, err)
	// Session closed, form discarded, collection entry untouched.
	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, DefaultFields(), s.Fields())
	got, ok := col.ByID(5)
	require.True(t, ok)
	assert.Equal(t, before, got)
}

func TestSaveCreateFailureAddsNothing(t *testing.T) {
	gw := &stubGateway{
		createFn: func(context.Context, models.ProjectRow) (models.ProjectRow, error) {
			return models.ProjectRow{}, errors.New("rejected")
		},
	}
	col := NewCollection(gw, nil)
	s := NewSession(gw, col)

	s.StartCreate()
	s.SetFields(Fields{Name: "doomed", Status: models.StatusInicio, Priority: models.PriorityMedia})

	_, err := s.Save(context.Background())

	require.Error(t, err)
	assert.Equal(t, 0, col.Len())
	assert.Equal(t, StateClosed, s.State())
}
