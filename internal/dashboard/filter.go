package dashboard

import (
	"sort"
	"strconv"

	"mgc-projects-api/internal/models"
)

// All is the sentinel criterion value meaning "no filter on this dimension".
// A zero-value criterion behaves the same way.
const All = "all"

// unclassifiedRank sorts records without a classification after every
// classified one.
const unclassifiedRank = 999999

// Criteria is one set of independent filter dimensions, combined with logical
// AND. Classification compares the text representation, so an unclassified
// record only matches the empty-string filter value.
type Criteria struct {
	Status         string
	Priority       string
	Executor       string
	Classification string
	Areas          []string
}

func active(v string) bool {
	return v != "" && v != All
}

// Matches reports whether p passes every active criterion.
func (cr Criteria) Matches(p models.Project) bool {
	if active(cr.Status) && string(p.Status) != cr.Status {
		return false
	}
	if active(cr.Priority) && string(p.Priority) != cr.Priority {
		return false
	}
	if active(cr.Executor) && p.ResponsavelExecucao != cr.Executor {
		return false
	}
	if active(cr.Classification) && p.Classificacao != cr.Classification {
		return false
	}
	if len(cr.Areas) > 0 {
		found := false
		for _, area := range cr.Areas {
			if p.AreaSolicitante == area {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Apply filters the collection by cr and sorts ascending by numeric
// classification. The sort is stable, so ties keep the source order, which in
// turn reflects the gateway's creation-descending secondary ordering.
func Apply(projects []models.Project, cr Criteria) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if cr.Matches(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return classificationRank(out[i].Classificacao) < classificationRank(out[j].Classificacao)
	})
	return out
}

func classificationRank(s string) float64 {
	if s == "" {
		return unclassifiedRank
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return unclassifiedRank
	}
	return f
}
