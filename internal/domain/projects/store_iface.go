package projects

import "context"

type StoreAPI interface {
	List(ctx context.Context, memberID string, limit, offset int) ([]Project, error)
	Get(ctx context.Context, id string) (Project, error)
	Create(ctx context.Context, p Project) (Project, error)
	Update(ctx context.Context, p Project) (Project, error)
}
