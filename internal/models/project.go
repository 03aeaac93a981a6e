package models

import (
	"math"
	"strconv"
	"time"
)

// Status is the workflow stage of a project.
type Status string

const (
	StatusInicio    Status = "inicio"
	StatusAndamento Status = "andamento"
	StatusFim       Status = "fim"
)

// NormalizeStatus maps unknown or missing values to StatusInicio. The remote
// schema tolerates nulls, so normalization happens once here instead of
// erroring.
func NormalizeStatus(s string) Status {
	switch Status(s) {
	case StatusInicio, StatusAndamento, StatusFim:
		return Status(s)
	default:
		return StatusInicio
	}
}

// Priority is the project priority level.
type Priority string

const (
	PriorityAlta  Priority = "alta"
	PriorityMedia Priority = "media"
	PriorityBaixa Priority = "baixa"
)

// NormalizePriority maps unknown or missing values to PriorityMedia.
func NormalizePriority(s string) Priority {
	switch Priority(s) {
	case PriorityAlta, PriorityMedia, PriorityBaixa:
		return Priority(s)
	default:
		return PriorityMedia
	}
}

// Project is the editable in-memory shape used by the collection and the edit
// session. Classificacao is held as text so the form can carry free-form
// input; an empty string means unset. ID is zero until the record has been
// persisted.
type Project struct {
	ID                     int64    `json:"id"`
	Name                   string   `json:"name"`
	Description            string   `json:"description"`
	StartDate              string   `json:"startDate"`
	EndDate                string   `json:"endDate"`
	Status                 Status   `json:"status"`
	AreaSolicitante        string   `json:"areaSolicitante"`
	ResponsavelSolicitacao string   `json:"responsavelSolicitacao"`
	ResponsavelExecucao    string   `json:"responsavelExecucao"`
	Priority               Priority `json:"priority"`
	Progresso              int      `json:"progresso"`
	Classificacao          string   `json:"classificacao"`
}

// ProjectRow is the persisted shape of a project as stored in the projetos
// table. Nullable columns are pointers.
type ProjectRow struct {
	ID                     int64     `json:"id"`
	Name                   *string   `json:"name"`
	Description            *string   `json:"description"`
	StartDate              *string   `json:"startDate"`
	EndDate                *string   `json:"endDate"`
	Status                 *string   `json:"status"`
	AreaSolicitante        *string   `json:"areaSolicitante"`
	ResponsavelSolicitacao *string   `json:"responsavelSolicitacao"`
	ResponsavelExecucao    *string   `json:"responsavelExecucao"`
	Priority               *string   `json:"priority"`
	Progresso              *int      `json:"progresso"`
	Classificacao          *float64  `json:"classificacao"`
	CreatedAt              time.Time `json:"created_at"`
}

// FromRow maps a persisted row to the editable shape, substituting the
// documented defaults for missing fields and coercing classificacao to text.
func FromRow(row ProjectRow) Project {
	p := Project{
		ID:                     row.ID,
		Name:                   strOrEmpty(row.Name),
		Description:            strOrEmpty(row.Description),
		StartDate:              strOrEmpty(row.StartDate),
		EndDate:                strOrEmpty(row.EndDate),
		Status:                 NormalizeStatus(strOrEmpty(row.Status)),
		AreaSolicitante:        strOrEmpty(row.AreaSolicitante),
		ResponsavelSolicitacao: strOrEmpty(row.ResponsavelSolicitacao),
		ResponsavelExecucao:    strOrEmpty(row.ResponsavelExecucao),
		Priority:               NormalizePriority(strOrEmpty(row.Priority)),
	}
	if row.Progresso != nil {
		p.Progresso = *row.Progresso
	}
	if row.Classificacao != nil {
		p.Classificacao = strconv.FormatFloat(*row.Classificacao, 'f', -1, 64)
	}
	return p
}

// ToRow maps the editable shape to a persisted payload: empty dates and unset
// responsible-party fields become null, classificacao becomes a number only
// when the text parses to a finite value, and status and progresso pass
// through as-is. The id and creation timestamp are owned by the store and
// left zero.
func (p Project) ToRow() ProjectRow {
	progresso := p.Progresso
	return ProjectRow{
		Name:                   strPtr(p.Name),
		Description:            strPtr(p.Description),
		StartDate:              nullIfEmpty(p.StartDate),
		EndDate:                nullIfEmpty(p.EndDate),
		Status:                 strPtr(string(p.Status)),
		AreaSolicitante:        strPtr(p.AreaSolicitante),
		ResponsavelSolicitacao: nullIfEmpty(p.ResponsavelSolicitacao),
		ResponsavelExecucao:    nullIfEmpty(p.ResponsavelExecucao),
		Priority:               nullIfEmpty(string(p.Priority)),
		Progresso:              &progresso,
		Classificacao:          parseClassificacao(p.Classificacao),
	}
}

// parseClassificacao returns nil unless the text is non-empty and parses to a
// finite number.
func parseClassificacao(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
