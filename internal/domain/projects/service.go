package projects

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/validation"
)

type Notifier interface {
	Notify(ctx context.Context, userID, ntype, title, body string) error
}

const NotificationProjectAssigned = "project_assigned"

type Service struct {
	store  StoreAPI
	notify Notifier
}

func NewService(store StoreAPI, notify Notifier) *Service {
	return &Service{store: store, notify: notify}
}

func (s *Service) List(ctx context.Context, actor Actor, limit, offset int) ([]Project, error) {
	memberID := ""
	if !auth.IsAdmin(actor.Role) {
		memberID = actor.UserID
	}
	return s.store.List(ctx, memberID, limit, offset)
}

func (s *Service) Get(ctx context.Context, actor Actor, id string) (Project, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if !auth.IsAdmin(actor.Role) && !isMember(p, actor.UserID) {
		return Project{}, ErrForbidden
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, actor Actor, in ProjectInput) (Project, error) {
	if !auth.IsAdmin(actor.Role) {
		return Project{}, ErrForbidden
	}
	if issues := validation.Struct(in); len(issues) > 0 {
		return Project{}, &ValidationError{Issues: issues}
	}
	status := StatusActive
	if in.Status != "" {
		normalized, ok := normalize(in.Status, Statuses)
		if !ok {
			return Project{}, invalid("status", "must be one of: active, completed, on_hold")
		}
		status = normalized
	}
	tasks, err := normalizeTasks(in.Tasks)
	if err != nil {
		return Project{}, err
	}

	created, err := s.store.Create(ctx, Project{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Status:      status,
		AssignedTo:  dedupe(in.AssignedTo),
		Tasks:       tasks,
		CreatedBy:   actor.UserID,
	})
	if err != nil {
		return Project{}, err
	}
	s.announce(ctx, created, created.AssignedTo)
	return created, nil
}

// Update applies upd. Admins may change everything; assigned members may
// only replace the task list. Other fields from members are ignored.
func (s *Service) Update(ctx context.Context, actor Actor, id string, upd ProjectUpdate) (Project, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return Project{}, err
	}
	isAdmin := auth.IsAdmin(actor.Role)
	if !isAdmin && !isMember(existing, actor.UserID) {
		return Project{}, ErrForbidden
	}
	if issues := validation.Struct(upd); len(issues) > 0 {
		return Project{}, &ValidationError{Issues: issues}
	}

	next := existing
	if upd.Tasks != nil {
		tasks, err := normalizeTasks(*upd.Tasks)
		if err != nil {
			return Project{}, err
		}
		next.Tasks = tasks
	}
	var added []string
	if isAdmin {
		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if name == "" {
				return Project{}, invalid("name", "is required")
			}
			next.Name = name
		}
		if upd.Description != nil {
			next.Description = *upd.Description
		}
		if upd.Status != nil {
			status, ok := normalize(*upd.Status, Statuses)
			if !ok {
				return Project{}, invalid("status", "must be one of: active, completed, on_hold")
			}
			next.Status = status
		}
		if upd.AssignedTo != nil {
			next.AssignedTo = dedupe(*upd.AssignedTo)
			for _, member := range next.AssignedTo {
				if !slices.Contains(existing.AssignedTo, member) {
					added = append(added, member)
				}
			}
		}
	}

	updated, err := s.store.Update(ctx, next)
	if err != nil {
		return Project{}, err
	}
	s.announce(ctx, updated, added)
	return updated, nil
}

func (s *Service) announce(ctx context.Context, p Project, members []string) {
	if s.notify == nil {
		return
	}
	for _, member := range members {
		if err := s.notify.Notify(ctx, member, NotificationProjectAssigned, "Project assigned",
			fmt.Sprintf("You have been added to project %q.", p.Name)); err != nil {
			slog.WarnContext(ctx, "project assignment notification failed", "projectId", p.ID, "userId", member, "err", err)
		}
	}
}

func isMember(p Project, userID string) bool {
	return userID != "" && (p.CreatedBy == userID || slices.Contains(p.AssignedTo, userID))
}

func normalizeTasks(tasks []Task) ([]Task, error) {
	out := make([]Task, 0, len(tasks))
	for i, task := range tasks {
		task.Title = strings.TrimSpace(task.Title)
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		if task.Status == "" {
			task.Status = TaskTodo
		} else {
			status, ok := normalize(task.Status, TaskStatuses)
			if !ok {
				return nil, invalid(fmt.Sprintf("tasks[%d].status", i), "must be one of: todo, in_progress, done")
			}
			task.Status = status
		}
		out = append(out, task)
	}
	return out, nil
}

func normalize(raw string, allowed []string) (string, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.NewReplacer("-", "_", " ", "_").Replace(value)
	if slices.Contains(allowed, value) {
		return value, true
	}
	return "", false
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
