// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"log/slog"

	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
)

const (
	fieldName        = "name"
	fieldYear        = "year"
	fieldDescription = "description"
	fieldGenre       = "genre"

	maxNameLen = 256
)

// # Service Layer

// Service orchestrates the business logic for the title catalogue.
type Service struct {
	repo   Repository
	cache  RatingCache
	logger *slog.Logger
}

// NewService constructs a new [Service] with its repository and rating cache.
func NewService(repo Repository, cache RatingCache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// # Discovery

/*
ListTitles retrieves a paginated and filtered collection of titles.

Description: This method orchestrates catalogue discovery. Filtering happens
at the database level; each returned title carries its derived rating
computed in the same query, so list reads bypass the rating cache.

Parameters:
  - context: context.Context
  - filter: Filter (name substring, exact year, category/genre slugs)
  - limit: int (Max records to return)
  - offset: int (Pagination cursor)

Returns:
  - []*Title: Slice of matching titles with categories, genres and ratings
  - int: Total count matching the filter (for pagination metadata)
  - error: Repository level errors
*/
func (service *Service) ListTitles(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
GetTitle fetches a single title by ID with its derived rating.

Description: The base record comes from the repository; the rating is served
read-through from the cache. On a cache miss the aggregate is computed from
the reviews and written back. Cache failures degrade to the aggregate query
and are logged, never surfaced.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Title: The hydrated title
  - error: NotFound when no such title exists
*/
func (service *Service) GetTitle(context context.Context, id int64) (*Title, error) {
	title, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if rating, hit, err := service.cache.GetRating(context, id); err == nil && hit {
		title.Rating = rating
		return title, nil
	} else if err != nil {
		service.logger.Warn("rating_cache_read_failed",
			slog.Int64("title_id", id),
			slog.String("error", err.Error()),
		)
	}

	rating, err := service.repo.Rating(context, id)
	if err != nil {
		return nil, err
	}
	title.Rating = rating

	if err := service.cache.SetRating(context, id, rating); err != nil {
		service.logger.Warn("rating_cache_write_failed",
			slog.Int64("title_id", id),
			slog.String("error", err.Error()),
		)
	}

	return title, nil
}

// # Curation (Admin)

/*
CreateTitle adds a new work to the catalogue.

Description: Admin only. Validates the metadata, then persists the title and
its classification links in one transaction. Category and genre references
are slugs; unknown slugs fail as validation errors, not conflicts.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (Must be an administrator)
  - title: *Title (Entity to persist; CategorySlug/GenreSlugs are the inputs)

Returns:
  - *Title: The created title with hydrated category and genres
  - error: Authorization, validation or persistence errors
*/
func (service *Service) CreateTitle(context context.Context, actor *sec.AuthClaims, title *Title) (*Title, error) {
	if err := sec.CanWriteCatalog(actor); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(fieldName, title.Name).MaxLen(fieldName, title.Name, maxNameLen)
	validator.Custom(fieldYear, title.Year < 0, "Must not be negative")
	validator.YearNotFuture(fieldYear, title.Year)
	for _, genreSlug := range title.GenreSlugs {
		validator.Slug(fieldGenre, genreSlug)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, title); err != nil {
		return nil, err
	}

	service.logger.Info("title_created",
		slog.Int64("title_id", title.ID),
		slog.String("name", title.Name),
	)

	return service.GetTitle(context, title.ID)
}

/*
UpdateTitle applies a partial update to an existing title.

Description: Admin only. Nil input fields keep their stored value; a non-nil
genre list replaces the full genre set. The merged entity is re-validated
before persisting.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (Must be an administrator)
  - id: int64
  - input: UpdateInput (Partial field set)

Returns:
  - *Title: The updated title
  - error: Authorization, validation, NotFound or persistence errors
*/
func (service *Service) UpdateTitle(context context.Context, actor *sec.AuthClaims, id int64, input UpdateInput) (*Title, error) {
	if err := sec.CanWriteCatalog(actor); err != nil {
		return nil, err
	}

	title, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// Merge the patch over the stored state
	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = *input.Description
	}
	if input.Category != nil {
		title.CategorySlug = input.Category
	}
	if input.Genres != nil {
		title.GenreSlugs = *input.Genres
	}

	validator := &validate.Validator{}
	validator.Required(fieldName, title.Name).MaxLen(fieldName, title.Name, maxNameLen)
	validator.Custom(fieldYear, title.Year < 0, "Must not be negative")
	validator.YearNotFuture(fieldYear, title.Year)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	replaceGenres := input.Genres != nil
	if err := service.repo.Update(context, title); err != nil {
		return nil, err
	}

	service.logger.Info("title_updated",
		slog.Int64("title_id", title.ID),
		slog.Bool("genres_replaced", replaceGenres),
	)

	return service.GetTitle(context, id)
}

/*
DeleteTitle removes a title from the catalogue.

Description: Admin only. Reviews and their comments go down with the title;
the database cascades handle that atomically. The rating cache entry is
dropped so the key space does not accumulate tombstones.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (Must be an administrator)
  - id: int64

Returns:
  - error: Authorization, NotFound or persistence errors
*/
func (service *Service) DeleteTitle(context context.Context, actor *sec.AuthClaims, id int64) error {
	if err := sec.CanWriteCatalog(actor); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	if err := service.cache.InvalidateRating(context, id); err != nil {
		service.logger.Warn("rating_cache_invalidate_failed",
			slog.Int64("title_id", id),
			slog.String("error", err.Error()),
		)
	}

	service.logger.Info("title_deleted", slog.Int64("title_id", id))
	return nil
}

// # Rating Maintenance

// InvalidateRating drops the cached rating for a title. The review subsystem
// calls this after every review write so the next read recomputes the mean.
func (service *Service) InvalidateRating(context context.Context, titleID int64) error {
	return service.cache.InvalidateRating(context, titleID)
}
