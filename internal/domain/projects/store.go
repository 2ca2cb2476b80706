package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrportal/internal/platform/querier"
)

const projectColumns = "id, name, description, status, assigned_to, tasks_json, created_by, created_at, updated_at"

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	var tasksJSON []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.AssignedTo, &tasksJSON, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Project{}, err
	}
	if len(tasksJSON) > 0 {
		if err := json.Unmarshal(tasksJSON, &p.Tasks); err != nil {
			return Project{}, fmt.Errorf("decode tasks for project %s: %w", p.ID, err)
		}
	}
	if p.AssignedTo == nil {
		p.AssignedTo = []string{}
	}
	if p.Tasks == nil {
		p.Tasks = []Task{}
	}
	return p, nil
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return ErrNotFound
	}
	return err
}

// List returns projects newest first. A non-empty memberID limits the result
// to projects the user created or is assigned to.
func (s *Store) List(ctx context.Context, memberID string, limit, offset int) ([]Project, error) {
	query := "SELECT " + projectColumns + " FROM projects"
	args := []any{}
	if memberID != "" {
		args = append(args, memberID)
		query += " WHERE created_by = $1 OR $1 = ANY(assigned_to)"
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Project, error) {
	p, err := scanProject(s.DB.QueryRow(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = $1", id))
	if err != nil {
		return Project{}, mapErr(err)
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p Project) (Project, error) {
	tasksJSON, err := json.Marshal(p.Tasks)
	if err != nil {
		return Project{}, err
	}
	return scanProject(s.DB.QueryRow(ctx, `
    INSERT INTO projects (name, description, status, assigned_to, tasks_json, created_by)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING `+projectColumns, p.Name, p.Description, p.Status, p.AssignedTo, tasksJSON, p.CreatedBy))
}

func (s *Store) Update(ctx context.Context, p Project) (Project, error) {
	tasksJSON, err := json.Marshal(p.Tasks)
	if err != nil {
		return Project{}, err
	}
	updated, err := scanProject(s.DB.QueryRow(ctx, `
    UPDATE projects
    SET name = $1, description = $2, status = $3, assigned_to = $4, tasks_json = $5, updated_at = now()
    WHERE id = $6
    RETURNING `+projectColumns, p.Name, p.Description, p.Status, p.AssignedTo, tasksJSON, p.ID))
	if err != nil {
		return Project{}, mapErr(err)
	}
	return updated, nil
}
