package location

import "context"

// Repository abstracts location persistence.
type Repository interface {
	// Create stores loc. When loc.IsDefault is set, every other location
	// loses its default flag in the same operation.
	Create(ctx context.Context, loc Location) (Location, error)
	List(ctx context.Context) ([]Location, error)
	Get(ctx context.Context, id int64) (Location, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Default(ctx context.Context) (Location, bool, error)
}
