package internal

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"mgc-projects-api/internal/dashboard"
	"mgc-projects-api/internal/models"

	"github.com/go-chi/chi/v5"
)

// projectForm is the request body for create and update: the editable shape
// without an id.
type projectForm struct {
	Name                   string `json:"name"`
	Description            string `json:"description"`
	StartDate              string `json:"startDate"`
	EndDate                string `json:"endDate"`
	Status                 string `json:"status"`
	AreaSolicitante        string `json:"areaSolicitante"`
	ResponsavelSolicitacao string `json:"responsavelSolicitacao"`
	ResponsavelExecucao    string `json:"responsavelExecucao"`
	Priority               string `json:"priority"`
	Progresso              int    `json:"progresso"`
	Classificacao          string `json:"classificacao"`
}

// fields normalizes the form into edit-session field values. Status and
// priority resolve to their enums here, at the boundary, so the session
// always holds a valid editable shape.
func (f projectForm) fields() dashboard.Fields {
	return dashboard.Fields{
		Name:                   strings.TrimSpace(f.Name),
		Description:            f.Description,
		StartDate:              f.StartDate,
		EndDate:                f.EndDate,
		Status:                 models.NormalizeStatus(f.Status),
		AreaSolicitante:        f.AreaSolicitante,
		ResponsavelSolicitacao: f.ResponsavelSolicitacao,
		ResponsavelExecucao:    f.ResponsavelExecucao,
		Priority:               models.NormalizePriority(f.Priority),
		Progresso:              f.Progresso,
		Classificacao:          strings.TrimSpace(f.Classificacao),
	}
}

type projectListResponse struct {
	Projects []models.Project `json:"projects"`
	Loading  bool             `json:"loading"`
}

// listProjects runs the filter/sort pipeline over the in-memory collection.
// No round trip happens here; the displayed list is re-derived instantly.
func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	criteria := parseCriteria(r)
	resp := projectListResponse{
		Projects: dashboard.Apply(s.Collection.Projects(), criteria),
		Loading:  s.Collection.Loading(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// refreshProjects replaces the collection wholesale from the remote store.
func (s *Server) refreshProjects(w http.ResponseWriter, r *http.Request) {
	if err := s.Collection.Refresh(r.Context()); err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": s.Collection.Len()})
}

func (s *Server) listAreas(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"areas": s.Collection.Areas()})
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var form projectForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(form.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	session := dashboard.NewSession(s.Gateway, s.Collection)
	session.StartCreate()
	session.SetFields(form.fields())

	p, err := session.Save(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	target, ok := s.Collection.ByID(id)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	var form projectForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(form.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	session := dashboard.NewSession(s.Gateway, s.Collection)
	session.StartEdit(target)
	session.SetFields(form.fields())

	p, err := session.Save(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := s.Collection.Delete(r.Context(), id); err != nil {
		writeGatewayError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeGatewayError reports a remote failure without leaking the underlying
// error text to the presentation layer.
func writeGatewayError(w http.ResponseWriter, err error) {
	log.Printf("gateway operation failed: %v", err)
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "operation failed"})
}
