package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }
func str(v string) *string   { return &v }

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusAndamento, NormalizeStatus("andamento"))
	assert.Equal(t, StatusFim, NormalizeStatus("fim"))
	assert.Equal(t, StatusInicio, NormalizeStatus(""))
	assert.Equal(t, StatusInicio, NormalizeStatus("whatever"))
}

func TestNormalizePriority(t *testing.T) {
	assert.Equal(t, PriorityAlta, NormalizePriority("alta"))
	assert.Equal(t, PriorityBaixa, NormalizePriority("baixa"))
	assert.Equal(t, PriorityMedia, NormalizePriority(""))
	assert.Equal(t, PriorityMedia, NormalizePriority("urgent"))
}

func TestFromRowDefaults(t *testing.T) {
	p := FromRow(ProjectRow{ID: 7})

	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "", p.Name)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, "", p.StartDate)
	assert.Equal(t, "", p.EndDate)
	assert.Equal(t, StatusInicio, p.Status)
	assert.Equal(t, PriorityMedia, p.Priority)
	assert.Equal(t, 0, p.Progresso)
	assert.Equal(t, "", p.Classificacao)
}

func TestFromRowClassificacaoCoercion(t *testing.T) {
	p := FromRow(ProjectRow{ID: 1, Classificacao: f64(5)})
	assert.Equal(t, "5", p.Classificacao)

	p = FromRow(ProjectRow{ID: 2, Classificacao: f64(3.5)})
	assert.Equal(t, "3.5", p.Classificacao)

	p = FromRow(ProjectRow{ID: 3, Classificacao: nil})
	assert.Equal(t, "", p.Classificacao)
}

func TestToRowClassificacao(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"", nil},
		{"abc", nil},
		{"3.5", f64(3.5)},
		{"-1", f64(-1)},
		{"NaN", nil},
		{"Inf", nil},
	}
	for _, tt := range tests {
		t.Run("input="+tt.input, func(t *testing.T) {
			row := Project{Classificacao: tt.input}.ToRow()
			if tt.want == nil {
				assert.Nil(t, row.Classificacao)
			} else {
				require.NotNil(t, row.Classificacao)
				assert.Equal(t, *tt.want, *row.Classificacao)
			}
		})
	}
}

func TestToRowNullsAndPassThrough(t *testing.T) {
	p := Project{
		Name:          "Migração ERP",
		Description:   "",
		StartDate:     "",
		EndDate:       "2026-03-01",
		Status:        StatusAndamento,
		Priority:      PriorityAlta,
		Progresso:     40,
		Classificacao: "",
	}
	row := p.ToRow()

	require.NotNil(t, row.Name)
	assert.Equal(t, "Migração ERP", *row.Name)
	require.NotNil(t, row.Description)
	assert.Equal(t, "", *row.Description)
	assert.Nil(t, row.StartDate)
	require.NotNil(t, row.EndDate)
	assert.Equal(t, "2026-03-01", *row.EndDate)
	require.NotNil(t, row.Status)
	assert.Equal(t, "andamento", *row.Status)
	assert.Nil(t, row.ResponsavelSolicitacao)
	assert.Nil(t, row.ResponsavelExecucao)
	require.NotNil(t, row.Priority)
	assert.Equal(t, "alta", *row.Priority)
	require.NotNil(t, row.Progresso)
	assert.Equal(t, 40, *row.Progresso)
	assert.Nil(t, row.Classificacao)
}

// Mapping must be stable under a round trip through the editable shape.
func TestMappingRoundTripStable(t *testing.T) {
	rows := []ProjectRow{
		{ID: 1, Name: str("A"), Status: str("fim"), Priority: str("baixa"),
			Classificacao: f64(2), Progresso: intp(100), StartDate: str("2025-01-01")},
		{ID: 2},
		{ID: 3, Name: str("C"), Status: str("bogus"), Priority: str("???"),
			Classificacao: f64(3.25), ResponsavelExecucao: str("Ana")},
		{ID: 4, Description: str("desc"), AreaSolicitante: str("TI"),
			ResponsavelSolicitacao: str("Bruno")},
	}
	for _, row := range rows {
		first := FromRow(row)
		again := FromRow(first.ToRow())
		again.ID = first.ID // ids are assigned by the store, not the mapper
		assert.Equal(t, first, again)
	}
}
