package changes

import "context"

type Repository interface {
	ListChanges(ctx context.Context) (*Set, error)
}
