// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
)

const (
	fieldText  = "text"
	fieldScore = "score"
)

// # Service Layer

// Service orchestrates review and comment contributions.
type Service struct {
	repo    Repository
	ratings RatingInvalidator
	logger  *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, ratings RatingInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		ratings: ratings,
		logger:  logger,
	}
}

// # Reviews

// ListReviews returns the reviews under a title, oldest first. Public.
// An unknown title reads as not found, not as an empty list.
func (service *Service) ListReviews(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	if err := service.ensureTitle(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListReviews(context, titleID, limit, offset)
}

// GetReview returns one review scoped by its title. Public.
func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	return service.repo.FindReview(context, titleID, reviewID)
}

/*
CreateReview attaches a new review to a title.

Description: Any authenticated user may review. A second review of the same
title by the same author surfaces as a conflict from the unique index, not
from an application-level check. The title's cached rating is invalidated
after the write.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (Must be authenticated)
  - titleID: int64
  - text: string
  - score: int (1 to 10 inclusive)

Returns:
  - *Review: The created review
  - error: Authorization, validation, NotFound or Conflict errors
*/
func (service *Service) CreateReview(context context.Context, actor *sec.AuthClaims, titleID int64, text string, score int) (*Review, error) {
	if err := sec.CanCreateContribution(actor); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(fieldText, text)
	validator.Range(fieldScore, score, MinScore, MaxScore)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureTitle(context, titleID); err != nil {
		return nil, err
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     text,
		Score:    score,
	}
	if err := service.repo.CreateReview(context, review); err != nil {
		return nil, err
	}

	service.invalidateRating(context, titleID)

	service.logger.Info("review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.String("author_id", actor.UserID),
	)

	return review, nil
}

/*
UpdateReview applies a partial update to an existing review.

Description: The author may edit their own review; moderators and admins may
edit anyone's. A score change shifts the title's mean, so the cached rating
is invalidated.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims
  - titleID, reviewID: int64
  - input: ReviewInput (Partial field set)

Returns:
  - *Review: The updated review
  - error: Authorization, validation, NotFound or persistence errors
*/
func (service *Service) UpdateReview(context context.Context, actor *sec.AuthClaims, titleID, reviewID int64, input ReviewInput) (*Review, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	review, err := service.repo.FindReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := sec.CanModifyContribution(actor, review.AuthorID); err != nil {
		return nil, err
	}

	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}

	validator := &validate.Validator{}
	validator.Required(fieldText, review.Text)
	validator.Range(fieldScore, review.Score, MinScore, MaxScore)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateReview(context, review); err != nil {
		return nil, err
	}

	service.invalidateRating(context, titleID)

	return review, nil
}

// DeleteReview removes a review and its comment thread. Author, moderator
// or admin only. The comments fall with the review via the database cascade.
func (service *Service) DeleteReview(context context.Context, actor *sec.AuthClaims, titleID, reviewID int64) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}

	review, err := service.repo.FindReview(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := sec.CanModifyContribution(actor, review.AuthorID); err != nil {
		return err
	}

	if err := service.repo.DeleteReview(context, reviewID); err != nil {
		return err
	}

	service.invalidateRating(context, titleID)

	service.logger.Info("review_deleted",
		slog.Int64("review_id", reviewID),
		slog.Int64("title_id", titleID),
		slog.String("actor_id", actor.UserID),
	)

	return nil
}

// # Comments

// ListComments returns the comment thread under a review, oldest first. Public.
func (service *Service) ListComments(context context.Context, titleID, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	// Resolve the parent first so a wrong title/review pair reads as 404.
	if _, err := service.repo.FindReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListComments(context, reviewID, limit, offset)
}

// GetComment returns one comment scoped by its review.
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.repo.FindReview(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repo.FindComment(context, reviewID, commentID)
}

// CreateComment adds a comment under a review. Any authenticated user may
// comment, and may comment on the same review any number of times.
func (service *Service) CreateComment(context context.Context, actor *sec.AuthClaims, titleID, reviewID int64, text string) (*Comment, error) {
	if err := sec.CanCreateContribution(actor); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(fieldText, text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.repo.FindReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     text,
	}
	if err := service.repo.CreateComment(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", reviewID),
		slog.String("author_id", actor.UserID),
	)

	return comment, nil
}

// UpdateComment edits a comment's text. Author, moderator or admin only.
func (service *Service) UpdateComment(context context.Context, actor *sec.AuthClaims, titleID, reviewID, commentID int64, text string) (*Comment, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	if _, err := service.repo.FindReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := service.repo.FindComment(context, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := sec.CanModifyContribution(actor, comment.AuthorID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(fieldText, text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := service.repo.UpdateComment(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// DeleteComment removes a comment. Author, moderator or admin only.
func (service *Service) DeleteComment(context context.Context, actor *sec.AuthClaims, titleID, reviewID, commentID int64) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}

	if _, err := service.repo.FindReview(context, titleID, reviewID); err != nil {
		return err
	}

	comment, err := service.repo.FindComment(context, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := sec.CanModifyContribution(actor, comment.AuthorID); err != nil {
		return err
	}

	if err := service.repo.DeleteComment(context, commentID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted",
		slog.Int64("comment_id", commentID),
		slog.String("actor_id", actor.UserID),
	)

	return nil
}

// # Helpers

func (service *Service) ensureTitle(context context.Context, titleID int64) error {
	exists, err := service.repo.TitleExists(context, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

// invalidateRating drops the cached title rating. Failures only cost cache
// staleness, so they are logged and swallowed.
func (service *Service) invalidateRating(context context.Context, titleID int64) {
	if err := service.ratings.InvalidateRating(context, titleID); err != nil {
		service.logger.Warn("rating_invalidate_failed",
			slog.Int64("title_id", titleID),
			slog.String("error", err.Error()),
		)
	}
}
