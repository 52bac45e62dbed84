package tag

import "context"

type Repository interface {
	Create(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}
