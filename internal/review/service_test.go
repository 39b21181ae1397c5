// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/dberr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/review"
	"github.com/taibuivan/kritika/pkg/pointer"
)

// # Test Doubles

// fakeRepository is an in-memory review.Repository.
type fakeRepository struct {
	titles    map[int64]bool
	reviews   map[int64]*review.Review
	comments  map[int64]*review.Comment
	nextID    int64
	createErr error
}

func newFakeRepository(titleIDs ...int64) *fakeRepository {
	repo := &fakeRepository{
		titles:   make(map[int64]bool),
		reviews:  make(map[int64]*review.Review),
		comments: make(map[int64]*review.Comment),
		nextID:   1,
	}
	for _, id := range titleIDs {
		repo.titles[id] = true
	}
	return repo
}

func (repo *fakeRepository) TitleExists(_ context.Context, titleID int64) (bool, error) {
	return repo.titles[titleID], nil
}

func (repo *fakeRepository) ListReviews(_ context.Context, titleID int64, _, _ int) ([]*review.Review, int, error) {
	var out []*review.Review
	for _, r := range repo.reviews {
		if r.TitleID == titleID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (repo *fakeRepository) FindReview(_ context.Context, titleID, reviewID int64) (*review.Review, error) {
	r, ok := repo.reviews[reviewID]
	if !ok || r.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	return r, nil
}

func (repo *fakeRepository) CreateReview(_ context.Context, r *review.Review) error {
	if repo.createErr != nil {
		return repo.createErr
	}
	for _, existing := range repo.reviews {
		if existing.TitleID == r.TitleID && existing.AuthorID == r.AuthorID {
			return apperr.Conflict("You have already reviewed this title")
		}
	}
	r.ID = repo.nextID
	repo.nextID++
	repo.reviews[r.ID] = r
	return nil
}

func (repo *fakeRepository) UpdateReview(_ context.Context, r *review.Review) error {
	if _, ok := repo.reviews[r.ID]; !ok {
		return dberr.ErrNotFound
	}
	repo.reviews[r.ID] = r
	return nil
}

func (repo *fakeRepository) DeleteReview(_ context.Context, reviewID int64) error {
	delete(repo.reviews, reviewID)
	return nil
}

func (repo *fakeRepository) ListComments(_ context.Context, reviewID int64, _, _ int) ([]*review.Comment, int, error) {
	var out []*review.Comment
	for _, c := range repo.comments {
		if c.ReviewID == reviewID {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (repo *fakeRepository) FindComment(_ context.Context, reviewID, commentID int64) (*review.Comment, error) {
	c, ok := repo.comments[commentID]
	if !ok || c.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	return c, nil
}

func (repo *fakeRepository) CreateComment(_ context.Context, c *review.Comment) error {
	c.ID = repo.nextID
	repo.nextID++
	repo.comments[c.ID] = c
	return nil
}

func (repo *fakeRepository) UpdateComment(_ context.Context, c *review.Comment) error {
	repo.comments[c.ID] = c
	return nil
}

func (repo *fakeRepository) DeleteComment(_ context.Context, commentID int64) error {
	delete(repo.comments, commentID)
	return nil
}

// fakeInvalidator records which titles had their rating dropped.
type fakeInvalidator struct {
	invalidated []int64
	err         error
}

func (f *fakeInvalidator) InvalidateRating(_ context.Context, titleID int64) error {
	if f.err != nil {
		return f.err
	}
	f.invalidated = append(f.invalidated, titleID)
	return nil
}

// # Fixtures

func newTestService(repo *fakeRepository, ratings *fakeInvalidator) *review.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return review.NewService(repo, ratings, logger)
}

func asUser(userID string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Username: "u-" + userID, Role: string(sec.RoleUser)}
}

func asModerator() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "mod-1", Username: "moderator", Role: string(sec.RoleModerator)}
}

func httpStatusOf(t *testing.T, err error) int {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae)
	return ae.HTTPStatus
}

// # Review Tests

/*
TestService_CreateReview verifies the happy path and that the title's cached
rating is invalidated by the write.
*/
func TestService_CreateReview(t *testing.T) {
	repo := newFakeRepository(10)
	ratings := &fakeInvalidator{}
	service := newTestService(repo, ratings)

	created, err := service.CreateReview(context.Background(), asUser("a1"), 10, "Loved it", 9)
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "a1", created.AuthorID)
	assert.Equal(t, 9, created.Score)
	assert.Equal(t, []int64{10}, ratings.invalidated)
}

/*
TestService_CreateReview_Anonymous verifies that an unauthenticated caller is
rejected before any validation or storage work.
*/
func TestService_CreateReview_Anonymous(t *testing.T) {
	service := newTestService(newFakeRepository(10), &fakeInvalidator{})

	_, err := service.CreateReview(context.Background(), nil, 10, "text", 5)
	assert.Equal(t, http.StatusUnauthorized, httpStatusOf(t, err))
}

/*
TestService_CreateReview_ScoreBounds verifies the inclusive 1..10 score range.
*/
func TestService_CreateReview_ScoreBounds(t *testing.T) {
	tests := []struct {
		name    string
		score   int
		isValid bool
	}{
		{"min", 1, true},
		{"max", 10, true},
		{"zero", 0, false},
		{"eleven", 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(newFakeRepository(10), &fakeInvalidator{})

			_, err := service.CreateReview(context.Background(), asUser(tt.name), 10, "text", tt.score)
			if tt.isValid {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, http.StatusBadRequest, httpStatusOf(t, err))
			}
		})
	}
}

/*
TestService_CreateReview_UnknownTitle verifies that reviewing a missing title
is 404.
*/
func TestService_CreateReview_UnknownTitle(t *testing.T) {
	service := newTestService(newFakeRepository(), &fakeInvalidator{})

	_, err := service.CreateReview(context.Background(), asUser("a1"), 99, "text", 5)
	assert.Equal(t, http.StatusNotFound, httpStatusOf(t, err))
}

/*
TestService_CreateReview_Duplicate verifies the one-review-per-author rule.
*/
func TestService_CreateReview_Duplicate(t *testing.T) {
	repo := newFakeRepository(10)
	service := newTestService(repo, &fakeInvalidator{})

	_, err := service.CreateReview(context.Background(), asUser("a1"), 10, "first", 5)
	require.NoError(t, err)

	_, err = service.CreateReview(context.Background(), asUser("a1"), 10, "second", 7)
	assert.Equal(t, http.StatusConflict, httpStatusOf(t, err))
}

/*
TestService_UpdateReview_Ownership pins who may edit a review: the author and
moderators pass, another plain user is 403, anonymous is 401.
*/
func TestService_UpdateReview_Ownership(t *testing.T) {
	tests := []struct {
		name       string
		actor      *sec.AuthClaims
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"author", asUser("a1"), 0},
		{"other_user", asUser("a2"), http.StatusForbidden},
		{"moderator", asModerator(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository(10)
			ratings := &fakeInvalidator{}
			service := newTestService(repo, ratings)

			created, err := service.CreateReview(context.Background(), asUser("a1"), 10, "original", 5)
			require.NoError(t, err)

			updated, err := service.UpdateReview(context.Background(), tt.actor, 10, created.ID,
				review.ReviewInput{Score: pointer.To(8)})

			if tt.wantStatus == 0 {
				require.NoError(t, err)
				assert.Equal(t, 8, updated.Score)
				// Both the create and the update drop the cache
				assert.Equal(t, []int64{10, 10}, ratings.invalidated)
			} else {
				assert.Equal(t, tt.wantStatus, httpStatusOf(t, err))
			}
		})
	}
}

/*
TestService_DeleteReview verifies deletion invalidates the cached rating.
*/
func TestService_DeleteReview(t *testing.T) {
	repo := newFakeRepository(10)
	ratings := &fakeInvalidator{}
	service := newTestService(repo, ratings)

	created, err := service.CreateReview(context.Background(), asUser("a1"), 10, "text", 5)
	require.NoError(t, err)

	require.NoError(t, service.DeleteReview(context.Background(), asUser("a1"), 10, created.ID))
	assert.Empty(t, repo.reviews)
	assert.Equal(t, []int64{10, 10}, ratings.invalidated)
}

/*
TestService_CreateReview_InvalidatorFailureIsSwallowed verifies that a broken
rating cache never fails the write; the cost is only staleness.
*/
func TestService_CreateReview_InvalidatorFailureIsSwallowed(t *testing.T) {
	service := newTestService(newFakeRepository(10), &fakeInvalidator{err: assert.AnError})

	created, err := service.CreateReview(context.Background(), asUser("a1"), 10, "text", 5)
	require.NoError(t, err)
	assert.NotNil(t, created)
}

/*
TestService_ListReviews_UnknownTitle verifies that listing under a missing
title reads as 404 rather than an empty page.
*/
func TestService_ListReviews_UnknownTitle(t *testing.T) {
	service := newTestService(newFakeRepository(), &fakeInvalidator{})

	_, _, err := service.ListReviews(context.Background(), 99, 10, 0)
	assert.Equal(t, http.StatusNotFound, httpStatusOf(t, err))
}

// # Comment Tests

/*
TestService_CreateComment verifies commenting under an existing review,
including repeat comments by the same author.
*/
func TestService_CreateComment(t *testing.T) {
	repo := newFakeRepository(10)
	service := newTestService(repo, &fakeInvalidator{})

	created, err := service.CreateReview(context.Background(), asUser("a1"), 10, "review", 5)
	require.NoError(t, err)

	first, err := service.CreateComment(context.Background(), asUser("c1"), 10, created.ID, "first")
	require.NoError(t, err)
	assert.Equal(t, created.ID, first.ReviewID)

	// Unlike reviews, the same author may comment repeatedly
	_, err = service.CreateComment(context.Background(), asUser("c1"), 10, created.ID, "second")
	assert.NoError(t, err)
}

/*
TestService_CreateComment_MissingReview verifies a wrong title/review pair is
404 even when the review ID exists under some other title.
*/
func TestService_CreateComment_MissingReview(t *testing.T) {
	repo := newFakeRepository(10, 20)
	service := newTestService(repo, &fakeInvalidator{})

	created, err := service.CreateReview(context.Background(), asUser("a1"), 10, "review", 5)
	require.NoError(t, err)

	_, err = service.CreateComment(context.Background(), asUser("c1"), 20, created.ID, "text")
	assert.Equal(t, http.StatusNotFound, httpStatusOf(t, err))
}

/*
TestService_UpdateComment_Ownership verifies the author-or-moderator rule on
comment edits.
*/
func TestService_UpdateComment_Ownership(t *testing.T) {
	repo := newFakeRepository(10)
	service := newTestService(repo, &fakeInvalidator{})

	rev, err := service.CreateReview(context.Background(), asUser("a1"), 10, "review", 5)
	require.NoError(t, err)
	comment, err := service.CreateComment(context.Background(), asUser("c1"), 10, rev.ID, "original")
	require.NoError(t, err)

	_, err = service.UpdateComment(context.Background(), asUser("c2"), 10, rev.ID, comment.ID, "hijacked")
	assert.Equal(t, http.StatusForbidden, httpStatusOf(t, err))

	updated, err := service.UpdateComment(context.Background(), asModerator(), 10, rev.ID, comment.ID, "moderated")
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Text)
}

/*
TestService_DeleteComment verifies author deletion of a comment.
*/
func TestService_DeleteComment(t *testing.T) {
	repo := newFakeRepository(10)
	service := newTestService(repo, &fakeInvalidator{})

	rev, err := service.CreateReview(context.Background(), asUser("a1"), 10, "review", 5)
	require.NoError(t, err)
	comment, err := service.CreateComment(context.Background(), asUser("c1"), 10, rev.ID, "text")
	require.NoError(t, err)

	require.NoError(t, service.DeleteComment(context.Background(), asUser("c1"), 10, rev.ID, comment.ID))
	assert.Empty(t, repo.comments)
}
