package employees

import (
	"context"
	"strings"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/validation"
)

type Service struct {
	store StoreAPI
	hash  func(string) (string, error)
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, hash: auth.HashPassword}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Employee, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	return s.store.Get(ctx, id)
}

// Create registers a new account. Only plain admins can be created here;
// anything else becomes an employee.
func (s *Service) Create(ctx context.Context, in NewEmployee) (Employee, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Department = strings.TrimSpace(in.Department)
	in.Position = strings.TrimSpace(in.Position)
	if issues := validation.Struct(in); len(issues) > 0 {
		return Employee{}, &ValidationError{Issues: issues}
	}
	if strings.EqualFold(strings.TrimSpace(in.Role), auth.RoleAdmin) {
		in.Role = auth.RoleAdmin
	} else {
		in.Role = auth.RoleEmployee
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return Employee{}, err
	}
	return s.store.Create(ctx, in, hash)
}

// DisplayName returns the employee's name, falling back to the email.
func (s *Service) DisplayName(ctx context.Context, id string) (string, error) {
	emp, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if emp.Name != "" {
		return emp.Name, nil
	}
	return emp.Email, nil
}
