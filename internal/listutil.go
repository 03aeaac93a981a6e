package internal

import (
	"net/http"
	"strings"

	"mgc-projects-api/internal/dashboard"
)

// parseCriteria reads the filter dimensions from the query string. Absent
// params fall back to the "all" sentinel; area may repeat, and an empty area
// set means no area filter.
func parseCriteria(r *http.Request) dashboard.Criteria {
	values := r.URL.Query()

	get := func(key string) string {
		v := strings.TrimSpace(values.Get(key))
		if v == "" {
			return dashboard.All
		}
		return v
	}

	areas := make([]string, 0, len(values["area"]))
	for _, raw := range values["area"] {
		if a := strings.TrimSpace(raw); a != "" {
			areas = append(areas, a)
		}
	}

	return dashboard.Criteria{
		Status:         get("status"),
		Priority:       get("priority"),
		Executor:       get("executor"),
		Classification: get("classificacao"),
		Areas:          areas,
	}
}
