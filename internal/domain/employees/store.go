package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func whereClause(filter Filter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Role != "" {
		args = append(args, filter.Role)
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		clauses = append(clauses, fmt.Sprintf("department = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		clauses = append(clauses, fmt.Sprintf("(lower(name) LIKE $%d OR lower(email) LIKE $%d)", len(args), len(args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Employee, error) {
	where, args := whereClause(filter)
	query := "SELECT id, name, email, role, department, position, last_login, created_at FROM users" + where + " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Role, &emp.Department, &emp.Position, &emp.LastLogin, &emp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := whereClause(filter)
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users"+where, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, role, department, position, last_login, created_at
    FROM users
    WHERE id = $1
  `, id).Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Role, &emp.Department, &emp.Position, &emp.LastLogin, &emp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) Create(ctx context.Context, in NewEmployee, passwordHash string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, role, department, position)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, name, email, role, department, position, last_login, created_at
  `, in.Name, in.Email, passwordHash, in.Role, in.Department, in.Position).Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Role, &emp.Department, &emp.Position, &emp.LastLogin, &emp.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Employee{}, ErrEmailTaken
	}
	return emp, err
}
