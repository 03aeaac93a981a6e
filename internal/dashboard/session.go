package dashboard

import (
	"context"
	"errors"
	"sync"

	"mgc-projects-api/internal/models"
)

// State is the edit session state.
type State int

const (
	StateClosed State = iota
	StateCreating
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateCreating:
		return "creating"
	case StateEditing:
		return "editing"
	default:
		return "closed"
	}
}

// ErrSessionClosed is returned by Save when no form is open.
var ErrSessionClosed = errors.New("dashboard: edit session is closed")

// Fields is the live form state of an edit session: the editable shape
// without a backing id.
type Fields struct {
	Name                   string
	Description            string
	StartDate              string
	EndDate                string
	Status                 models.Status
	AreaSolicitante        string
	ResponsavelSolicitacao string
	ResponsavelExecucao    string
	Priority               models.Priority
	Progresso              int
	Classificacao          string
}

// DefaultFields returns a form reset to the documented defaults.
func DefaultFields() Fields {
	return Fields{
		Status:   models.StatusInicio,
		Priority: models.PriorityMedia,
	}
}

// Session is the transient edit state: which record (if any) is being edited
// and the live form values. It holds its own copy of the fields and never
// shares mutable state with the collection.
type Session struct {
	gw  Gateway
	col *Collection

	mu     sync.Mutex
	state  State
	id     int64 // backing id, set only while editing
	fields Fields
}

// NewSession creates a closed session bound to the gateway and collection.
func NewSession(gw Gateway, col *Collection) *Session {
	return &Session{gw: gw, col: col, fields: DefaultFields()}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Fields returns a copy of the live form values.
func (s *Session) Fields() Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

// StartCreate opens the form for a new record with fields at defaults.
func (s *Session) StartCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateCreating
	s.id = 0
	s.fields = DefaultFields()
}

// StartEdit opens the form over an existing project, copying its attributes.
// The project's classificacao is already text in the editable shape.
func (s *Session) StartEdit(p models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateEditing
	s.id = p.ID
	s.fields = Fields{
		Name:                   p.Name,
		Description:            p.Description,
		StartDate:              p.StartDate,
		EndDate:                p.EndDate,
		Status:                 p.Status,
		AreaSolicitante:        p.AreaSolicitante,
		ResponsavelSolicitacao: p.ResponsavelSolicitacao,
		ResponsavelExecucao:    p.ResponsavelExecucao,
		Priority:               p.Priority,
		Progresso:              p.Progresso,
		Classificacao:          p.Classificacao,
	}
}

// SetFields replaces the live form values.
func (s *Session) SetFields(f Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = f
}

// Cancel closes the form and resets the fields.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.close()
}

// Save persists the form through the gateway: create when the session has no
// backing id, full-row update otherwise. On success the returned row is
// mapped back and reconciled into the collection. The session closes and the
// fields reset whether or not the call succeeded; a failure leaves the
// collection untouched and is reported, not retried.
func (s *Session) Save(ctx context.Context) (models.Project, error) {
	s.mu.Lock()
	state := s.state
	id := s.id
	payload := s.fields.project().ToRow()
	s.close()
	s.mu.Unlock()

	switch state {
	case StateCreating:
		row, err := s.gw.Create(ctx, payload)
		if err != nil {
			return models.Project{}, err
		}
		p := models.FromRow(row)
		s.col.Add(p)
		return p, nil
	case StateEditing:
		row, err := s.gw.Update(ctx, id, payload)
		if err != nil {
			return models.Project{}, err
		}
		p := models.FromRow(row)
		s.col.Replace(p)
		return p, nil
	default:
		return models.Project{}, ErrSessionClosed
	}
}

// close resets to Closed with default fields. Callers hold s.mu.
func (s *Session) close() {
	s.state = StateClosed
	s.id = 0
	s.fields = DefaultFields()
}

// project lifts the form values into the editable shape for mapping.
func (f Fields) project() models.Project {
	return models.Project{
		Name:                   f.Name,
		Description:            f.Description,
		StartDate:              f.StartDate,
		EndDate:                f.EndDate,
		Status:                 f.Status,
		AreaSolicitante:        f.AreaSolicitante,
		ResponsavelSolicitacao: f.ResponsavelSolicitacao,
		ResponsavelExecucao:    f.ResponsavelExecucao,
		Priority:               f.Priority,
		Progresso:              f.Progresso,
		Classificacao:          f.Classificacao,
	}
}
