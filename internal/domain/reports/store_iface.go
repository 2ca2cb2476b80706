package reports

import "context"

// StoreAPI counts rows for the dashboard. An empty userID means all users.
type StoreAPI interface {
	CountEmployees(ctx context.Context) (int, error)
	CountProjects(ctx context.Context, userID, status string) (int, error)
	CountKPIs(ctx context.Context, userID, status string) (int, error)
	CountAppraisals(ctx context.Context, userID, status string) (int, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int, error)
}
