package tag

import "context"

type Service interface {
	Create(ctx context.Context, req TagRequest) error
	List(ctx context.Context) ([]string, error)
}
