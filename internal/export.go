package internal

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"mgc-projects-api/internal/dashboard"
	"mgc-projects-api/internal/models"

	"github.com/lib/pq"
	"github.com/tealeg/xlsx/v3"
)

// exportProjects streams the filtered project list as an .xlsx workbook. The
// filters are pushed into SQL so the export always reflects the remote table,
// not the last refresh.
func (s *Server) exportProjects(w http.ResponseWriter, r *http.Request) {
	criteria := parseCriteria(r)

	clauses := []string{}
	args := []interface{}{}
	arg := 1

	addEq := func(col, val string) {
		if val == "" || val == dashboard.All {
			return
		}
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, arg))
		args = append(args, val)
		arg++
	}
	addEq("status", criteria.Status)
	addEq("priority", criteria.Priority)
	addEq(`"responsavelExecucao"`, criteria.Executor)

	if criteria.Classification != "" && criteria.Classification != dashboard.All {
		if f, err := strconv.ParseFloat(criteria.Classification, 64); err == nil {
			clauses = append(clauses, fmt.Sprintf("classificacao = $%d", arg))
			args = append(args, f)
			arg++
		}
	}
	if len(criteria.Areas) > 0 {
		clauses = append(clauses, fmt.Sprintf(`"areaSolicitante" = ANY($%d::text[])`, arg))
		args = append(args, pq.Array(criteria.Areas))
		arg++
	}

	sqlStr := `
		SELECT id, name, description, "startDate", "endDate", status,
		       "areaSolicitante", "responsavelSolicitacao", "responsavelExecucao",
		       priority, progresso, classificacao, created_at
		FROM projetos`
	if len(clauses) > 0 {
		sqlStr += " WHERE " + strings.Join(clauses, " AND ")
	}
	// Same order the dashboard displays: classification ascending with
	// unclassified last, newest first within a rank.
	sqlStr += ` ORDER BY classificacao ASC NULLS LAST, created_at DESC`

	rows, err := s.DB.QueryContext(r.Context(), sqlStr, args...)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	defer rows.Close()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Projetos")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	header := sheet.AddRow()
	for _, title := range []string{
		"ID", "Nome", "Descrição", "Início", "Fim", "Status",
		"Área Solicitante", "Responsável Solicitação", "Responsável Execução",
		"Prioridade", "Progresso", "Classificação",
	} {
		header.AddCell().Value = title
	}

	for rows.Next() {
		var row models.ProjectRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Description, &row.StartDate,
			&row.EndDate, &row.Status, &row.AreaSolicitante,
			&row.ResponsavelSolicitacao, &row.ResponsavelExecucao, &row.Priority,
			&row.Progresso, &row.Classificacao, &row.CreatedAt); err != nil {
			writeGatewayError(w, err)
			return
		}
		p := models.FromRow(row)

		out := sheet.AddRow()
		out.AddCell().SetInt64(p.ID)
		out.AddCell().Value = p.Name
		out.AddCell().Value = p.Description
		out.AddCell().Value = p.StartDate
		out.AddCell().Value = p.EndDate
		out.AddCell().Value = string(p.Status)
		out.AddCell().Value = p.AreaSolicitante
		out.AddCell().Value = p.ResponsavelSolicitacao
		out.AddCell().Value = p.ResponsavelExecucao
		out.AddCell().Value = string(p.Priority)
		out.AddCell().SetInt(p.Progresso)
		out.AddCell().Value = p.Classificacao
	}
	if err := rows.Err(); err != nil {
		writeGatewayError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="projetos.xlsx"`)
	if err := file.Write(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
