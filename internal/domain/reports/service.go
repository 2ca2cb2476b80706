package reports

import (
	"context"

	"golang.org/x/sync/errgroup"

	"hrportal/internal/domain/auth"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Dashboard runs the counts concurrently and fails if any of them fails.
func (s *Service) Dashboard(ctx context.Context, userID, role string) (Dashboard, error) {
	var d Dashboard
	scope := userID
	d.Scope = ScopeSelf
	if auth.IsAdmin(role) {
		scope = ""
		d.Scope = ScopeOrganisation
	}

	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	if scope == "" {
		count(&d.Employees, s.store.CountEmployees)
	}
	count(&d.Projects, func(ctx context.Context) (int, error) { return s.store.CountProjects(ctx, scope, "") })
	count(&d.ActiveProjects, func(ctx context.Context) (int, error) { return s.store.CountProjects(ctx, scope, "active") })
	count(&d.KPIs, func(ctx context.Context) (int, error) { return s.store.CountKPIs(ctx, scope, "") })
	count(&d.CompletedKPIs, func(ctx context.Context) (int, error) { return s.store.CountKPIs(ctx, scope, "completed") })
	count(&d.AtRiskKPIs, func(ctx context.Context) (int, error) { return s.store.CountKPIs(ctx, scope, "at_risk") })
	count(&d.Appraisals, func(ctx context.Context) (int, error) { return s.store.CountAppraisals(ctx, scope, "") })
	count(&d.PendingReviews, func(ctx context.Context) (int, error) { return s.store.CountAppraisals(ctx, scope, "submitted") })
	count(&d.UnreadNotifications, func(ctx context.Context) (int, error) { return s.store.CountUnreadNotifications(ctx, userID) })

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
