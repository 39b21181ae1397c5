// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"context"
	"log/slog"

	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/slug"
)

const (
	fieldName = "name"
	fieldSlug = "slug"

	maxNameLen = 256
	maxSlugLen = 50
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListGenres returns genres matching the optional name search. Public.
func (service *Service) ListGenres(context context.Context, search string, limit, offset int) ([]*Genre, int, error) {
	return service.repo.List(context, search, limit, offset)
}

// CreateGenre registers a new genre. Admin only. The slug is derived from
// the name when omitted.
func (service *Service) CreateGenre(context context.Context, actor *sec.AuthClaims, genre *Genre) error {
	if err := sec.CanWriteCatalog(actor); err != nil {
		return err
	}

	if genre.Slug == "" {
		genre.Slug = slug.From(genre.Name)
	}

	validator := &validate.Validator{}
	validator.Required(fieldName, genre.Name).MaxLen(fieldName, genre.Name, maxNameLen)
	validator.Required(fieldSlug, genre.Slug).Slug(fieldSlug, genre.Slug).MaxLen(fieldSlug, genre.Slug, maxSlugLen)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, genre); err != nil {
		return err
	}

	service.logger.Info("genre_created",
		slog.String("slug", genre.Slug),
		slog.String("name", genre.Name),
	)

	return nil
}

// DeleteGenre removes a genre by slug. Admin only. Junction rows to titles
// are removed by the database; the titles themselves survive.
func (service *Service) DeleteGenre(context context.Context, actor *sec.AuthClaims, genreSlug string) error {
	if err := sec.CanWriteCatalog(actor); err != nil {
		return err
	}

	if err := service.repo.DeleteBySlug(context, genreSlug); err != nil {
		return err
	}

	service.logger.Info("genre_deleted", slog.String("slug", genreSlug))
	return nil
}
