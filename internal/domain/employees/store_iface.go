package employees

import "context"

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Employee, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Get(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, emp NewEmployee, passwordHash string) (Employee, error)
}
