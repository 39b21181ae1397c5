package title

import "context"

// Repository is the persistence boundary for titles.
//
// List hydrates each title with its rating; FindByID intentionally does not,
// so the service can satisfy single-title reads from the rating cache.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error)
	FindByID(context context.Context, id int64) (*Title, error)
	Rating(context context.Context, id int64) (*float64, error)
	Create(context context.Context, title *Title) error
	Update(context context.Context, title *Title) error
	Delete(context context.Context, id int64) error
}

// RatingCache is the read-through cache for the derived title rating.
//
// A nil rating (no reviews yet) is cacheable as well. All methods are
// best-effort from the service's point of view; a cold or failing cache
// only costs an extra aggregate query.
type RatingCache interface {
	GetRating(context context.Context, titleID int64) (*float64, bool, error)
	SetRating(context context.Context, titleID int64, rating *float64) error
	InvalidateRating(context context.Context, titleID int64) error
}
