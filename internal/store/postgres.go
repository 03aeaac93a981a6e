package store

import (
	"context"
	"database/sql"

	"mgc-projects-api/internal/models"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// The remote schema uses a single projetos table. Column names are the
// camelCase identifiers the dashboard schema was created with, so they must
// stay quoted.
const projectColumns = `id, name, description, "startDate", "endDate", status,
	"areaSolicitante", "responsavelSolicitacao", "responsavelExecucao",
	priority, progresso, classificacao, created_at`

// Store is the remote store gateway. It is the only component that talks to
// the database for project rows.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// List returns every project row ordered by classificacao ascending with
// nulls first, then creation timestamp descending. This ordering is the
// default on-screen order and must not change.
func (s *Store) List(ctx context.Context) ([]models.ProjectRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projetos
		ORDER BY classificacao ASC NULLS FIRST, created_at DESC`)
	if err != nil {
		return nil, persistErr("list", err)
	}
	defer rows.Close()

	out := []models.ProjectRow{}
	for rows.Next() {
		row, err := scanProject(rows)
		if err != nil {
			return nil, persistErr("list", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list", err)
	}
	return out, nil
}

// Create inserts one row and returns it with its assigned id and creation
// timestamp.
func (s *Store) Create(ctx context.Context, payload models.ProjectRow) (models.ProjectRow, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO projetos (name, description, "startDate", "endDate", status,
			"areaSolicitante", "responsavelSolicitacao", "responsavelExecucao",
			priority, progresso, classificacao)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING `+projectColumns,
		payload.Name, payload.Description, payload.StartDate, payload.EndDate,
		payload.Status, payload.AreaSolicitante, payload.ResponsavelSolicitacao,
		payload.ResponsavelExecucao, payload.Priority, payload.Progresso,
		payload.Classificacao)
	out, err := scanProject(row)
	if err != nil {
		return models.ProjectRow{}, persistErr("create", err)
	}
	return out, nil
}

// Update replaces the full row identified by id. A missing id is a
// PersistenceError; there is no partial-failure state.
func (s *Store) Update(ctx context.Context, id int64, payload models.ProjectRow) (models.ProjectRow, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE projetos SET name = $1, description = $2, "startDate" = $3,
			"endDate" = $4, status = $5, "areaSolicitante" = $6,
			"responsavelSolicitacao" = $7, "responsavelExecucao" = $8,
			priority = $9, progresso = $10, classificacao = $11
		WHERE id = $12
		RETURNING `+projectColumns,
		payload.Name, payload.Description, payload.StartDate, payload.EndDate,
		payload.Status, payload.AreaSolicitante, payload.ResponsavelSolicitacao,
		payload.ResponsavelExecucao, payload.Priority, payload.Progresso,
		payload.Classificacao, id)
	out, err := scanProject(row)
	if err == sql.ErrNoRows {
		return models.ProjectRow{}, persistErr("update", ErrNotFound)
	}
	if err != nil {
		return models.ProjectRow{}, persistErr("update", err)
	}
	return out, nil
}

// Delete removes the row identified by id. Deleting an id that no longer
// exists is not an error; removal is by id match and the effect is the same.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM projetos WHERE id = $1`, id); err != nil {
		return persistErr("delete", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(sc scanner) (models.ProjectRow, error) {
	var row models.ProjectRow
	err := sc.Scan(&row.ID, &row.Name, &row.Description, &row.StartDate,
		&row.EndDate, &row.Status, &row.AreaSolicitante,
		&row.ResponsavelSolicitacao, &row.ResponsavelExecucao, &row.Priority,
		&row.Progresso, &row.Classificacao, &row.CreatedAt)
	return row, err
}
