// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/catalog/title"
	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/pkg/pointer"
)

// # Test Doubles

// fakeRepository is an in-memory title.Repository. ratingCalls counts how
// often the aggregate query ran, which is what the cache tests pin down.
type fakeRepository struct {
	titles      map[int64]*title.Title
	ratings     map[int64]*float64
	ratingCalls int
	nextID      int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		titles:  make(map[int64]*title.Title),
		ratings: make(map[int64]*float64),
		nextID:  1,
	}
}

func (repo *fakeRepository) List(_ context.Context, _ title.Filter, _, _ int) ([]*title.Title, int, error) {
	var out []*title.Title
	for _, t := range repo.titles {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id int64) (*title.Title, error) {
	t, ok := repo.titles[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	copied := *t
	return &copied, nil
}

func (repo *fakeRepository) Rating(_ context.Context, id int64) (*float64, error) {
	repo.ratingCalls++
	return repo.ratings[id], nil
}

func (repo *fakeRepository) Create(_ context.Context, t *title.Title) error {
	t.ID = repo.nextID
	repo.nextID++
	repo.titles[t.ID] = t
	return nil
}

func (repo *fakeRepository) Update(_ context.Context, t *title.Title) error {
	if _, ok := repo.titles[t.ID]; !ok {
		return apperr.NotFound("Title")
	}
	repo.titles[t.ID] = t
	return nil
}

func (repo *fakeRepository) Delete(_ context.Context, id int64) error {
	if _, ok := repo.titles[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(repo.titles, id)
	return nil
}

// fakeCache is an in-memory title.RatingCache with switchable failure.
type fakeCache struct {
	entries map[int64]*float64
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[int64]*float64)}
}

func (cache *fakeCache) GetRating(_ context.Context, titleID int64) (*float64, bool, error) {
	if cache.getErr != nil {
		return nil, false, cache.getErr
	}
	rating, hit := cache.entries[titleID]
	return rating, hit, nil
}

func (cache *fakeCache) SetRating(_ context.Context, titleID int64, rating *float64) error {
	cache.sets++
	cache.entries[titleID] = rating
	return nil
}

func (cache *fakeCache) InvalidateRating(_ context.Context, titleID int64) error {
	delete(cache.entries, titleID)
	return nil
}

// # Fixtures

func newTestService(repo *fakeRepository, cache *fakeCache) *title.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return title.NewService(repo, cache, logger)
}

func asAdmin() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "adm-1", Username: "admin", Role: string(sec.RoleAdmin)}
}

func asUser() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "usr-1", Username: "reader", Role: string(sec.RoleUser)}
}

func httpStatusOf(t *testing.T, err error) int {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae)
	return ae.HTTPStatus
}

func seedTitle(t *testing.T, repo *fakeRepository, name string, year int) *title.Title {
	t.Helper()
	seeded := &title.Title{Name: name, Year: year}
	require.NoError(t, repo.Create(context.Background(), seeded))
	return seeded
}

// # Rating Cache Behavior

/*
TestService_GetTitle_CacheHit verifies that a warm cache satisfies the rating
read without touching the aggregate query.
*/
func TestService_GetTitle_CacheHit(t *testing.T) {
	repo := newFakeRepository()
	cache := newFakeCache()
	service := newTestService(repo, cache)

	seeded := seedTitle(t, repo, "Solaris", 1972)
	cache.entries[seeded.ID] = pointer.To(8.5)

	got, err := service.GetTitle(context.Background(), seeded.ID)
	require.NoError(t, err)

	require.NotNil(t, got.Rating)
	assert.Equal(t, 8.5, *got.Rating)
	assert.Zero(t, repo.ratingCalls)
}

/*
TestService_GetTitle_CacheMiss verifies the read-through path: a cold cache
triggers the aggregate query and the result is written back.
*/
func TestService_GetTitle_CacheMiss(t *testing.T) {
	repo := newFakeRepository()
	cache := newFakeCache()
	service := newTestService(repo, cache)

	seeded := seedTitle(t, repo, "Solaris", 1972)
	repo.ratings[seeded.ID] = pointer.To(7.0)

	got, err := service.GetTitle(context.Background(), seeded.ID)
	require.NoError(t, err)

	require.NotNil(t, got.Rating)
	assert.Equal(t, 7.0, *got.Rating)
	assert.Equal(t, 1, repo.ratingCalls)
	assert.Equal(t, 1, cache.sets)
}

/*
TestService_GetTitle_NilRatingIsCacheable verifies that "no reviews yet" is a
cacheable state, not a perpetual miss.
*/
func TestService_GetTitle_NilRatingIsCacheable(t *testing.T) {
	repo := newFakeRepository()
	cache := newFakeCache()
	service := newTestService(repo, cache)

	seeded := seedTitle(t, repo, "Solaris", 1972)

	got, err := service.GetTitle(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)
	assert.Equal(t, 1, cache.sets)

	// Second read hits the cached nil
	_, err = service.GetTitle(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.ratingCalls)
}

/*
TestService_GetTitle_CacheFailureDegrades verifies that a failing cache only
costs the aggregate query; the read still succeeds.
*/
func TestService_GetTitle_CacheFailureDegrades(t *testing.T) {
	repo := newFakeRepository()
	cache := newFakeCache()
	cache.getErr = assert.AnError
	service := newTestService(repo, cache)

	seeded := seedTitle(t, repo, "Solaris", 1972)
	repo.ratings[seeded.ID] = pointer.To(6.0)

	got, err := service.GetTitle(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 6.0, *got.Rating)
	assert.Equal(t, 1, repo.ratingCalls)
}

/*
TestService_InvalidateRating verifies the hook the review subsystem uses.
*/
func TestService_InvalidateRating(t *testing.T) {
	repo := newFakeRepository()
	cache := newFakeCache()
	service := newTestService(repo, cache)

	seeded := seedTitle(t, repo, "Solaris", 1972)
	cache.entries[seeded.ID] = pointer.To(8.5)

	require.NoError(t, service.InvalidateRating(context.Background(), seeded.ID))
	_, hit := cache.entries[seeded.ID]
	assert.False(t, hit)
}

// # Curation

/*
TestService_CreateTitle_Authorization pins the admin-only write rule.
*/
func TestService_CreateTitle_Authorization(t *testing.T) {
	service := newTestService(newFakeRepository(), newFakeCache())

	_, err := service.CreateTitle(context.Background(), nil, &title.Title{Name: "X", Year: 2000})
	assert.Equal(t, http.StatusUnauthorized, httpStatusOf(t, err))

	_, err = service.CreateTitle(context.Background(), asUser(), &title.Title{Name: "X", Year: 2000})
	assert.Equal(t, http.StatusForbidden, httpStatusOf(t, err))
}

/*
TestService_CreateTitle_Validation checks the metadata rules: name required,
year not negative and not in the future.
*/
func TestService_CreateTitle_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input *title.Title
	}{
		{"missing_name", &title.Title{Year: 2000}},
		{"negative_year", &title.Title{Name: "X", Year: -44}},
		{"future_year", &title.Title{Name: "X", Year: 3000}},
		{"bad_genre_slug", &title.Title{Name: "X", Year: 2000, GenreSlugs: []string{"Not A Slug"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(newFakeRepository(), newFakeCache())

			_, err := service.CreateTitle(context.Background(), asAdmin(), tt.input)
			assert.Equal(t, http.StatusBadRequest, httpStatusOf(t, err))
		})
	}
}

/*
TestService_CreateTitle verifies the happy path returns the hydrated title.
*/
func TestService_CreateTitle(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeCache())

	created, err := service.CreateTitle(context.Background(), asAdmin(), &title.Title{Name: "Solaris", Year: 1972})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "Solaris", created.Name)
	assert.Nil(t, created.Rating)
}

/*
TestService_UpdateTitle_Merge verifies PATCH semantics: absent fields keep
their stored values, present fields overwrite.
*/
func TestService_UpdateTitle_Merge(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeCache())

	seeded := seedTitle(t, repo, "Solaris", 1972)
	seeded.Description = "Original description"
	repo.titles[seeded.ID] = seeded

	updated, err := service.UpdateTitle(context.Background(), asAdmin(), seeded.ID, title.UpdateInput{
		Name: pointer.To("Solyaris"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Solyaris", updated.Name)
	assert.Equal(t, 1972, updated.Year)
	assert.Equal(t, "Original description", updated.Description)
}

/*
TestService_UpdateTitle_RevalidatesMergedState verifies that the merged
entity, not the raw patch, is what gets validated.
*/
func TestService_UpdateTitle_RevalidatesMergedState(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo, newFakeCache())

	seeded := seedTitle(t, repo, "Solaris", 1972)

	_, err := service.UpdateTitle(context.Background(), asAdmin(), seeded.ID, title.UpdateInput{
		Year: pointer.To(3000),
	})
	assert.Equal(t, http.StatusBadRequest, httpStatusOf(t, err))
}

/*
TestService_DeleteTitle verifies deletion drops the cached rating as well.
*/
func TestService_DeleteTitle(t *testing.T) {
	repo := newFakeRepository()
	cache := newFakeCache()
	service := newTestService(repo, cache)

	seeded := seedTitle(t, repo, "Solaris", 1972)
	cache.entries[seeded.ID] = pointer.To(8.5)

	require.NoError(t, service.DeleteTitle(context.Background(), asAdmin(), seeded.ID))

	assert.Empty(t, repo.titles)
	_, hit := cache.entries[seeded.ID]
	assert.False(t, hit)
}

/*
TestService_DeleteTitle_NotFound verifies a missing ID reads as 404.
*/
func TestService_DeleteTitle_NotFound(t *testing.T) {
	service := newTestService(newFakeRepository(), newFakeCache())

	err := service.DeleteTitle(context.Background(), asAdmin(), 999)
	assert.Equal(t, http.StatusNotFound, httpStatusOf(t, err))
}
