package review

import "context"

// Repository is the persistence boundary for reviews and comments.
//
// Find methods scope by the parent (title for reviews, review for comments)
// so a valid ID under the wrong parent reads as not found.
type Repository interface {
	TitleExists(context context.Context, titleID int64) (bool, error)

	ListReviews(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error)
	FindReview(context context.Context, titleID, reviewID int64) (*Review, error)
	CreateReview(context context.Context, review *Review) error
	UpdateReview(context context.Context, review *Review) error
	DeleteReview(context context.Context, reviewID int64) error

	ListComments(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error)
	FindComment(context context.Context, reviewID, commentID int64) (*Comment, error)
	CreateComment(context context.Context, comment *Comment) error
	UpdateComment(context context.Context, comment *Comment) error
	DeleteComment(context context.Context, commentID int64) error
}

// RatingInvalidator drops a title's cached rating after a review write.
// The catalogue's title service satisfies this.
type RatingInvalidator interface {
	InvalidateRating(context context.Context, titleID int64) error
}
