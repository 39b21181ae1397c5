// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

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

// ListCategories returns categories matching the optional name search,
// newest last. Visible to everyone.
func (service *Service) ListCategories(context context.Context, search string, limit, offset int) ([]*Category, int, error) {
	return service.repo.List(context, search, limit, offset)
}

// CreateCategory registers a new category. Admin only.
//
// When the slug is omitted it is derived from the name. Slug collisions
// surface as a conflict from the storage layer.
func (service *Service) CreateCategory(context context.Context, actor *sec.AuthClaims, category *Category) error {
	if err := sec.CanWriteCatalog(actor); err != nil {
		return err
	}

	if category.Slug == "" {
		category.Slug = slug.From(category.Name)
	}

	validator := &validate.Validator{}
	validator.Required(fieldName, category.Name).MaxLen(fieldName, category.Name, maxNameLen)
	validator.Required(fieldSlug, category.Slug).Slug(fieldSlug, category.Slug).MaxLen(fieldSlug, category.Slug, maxSlugLen)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, category); err != nil {
		return err
	}

	service.logger.Info("category_created",
		slog.String("slug", category.Slug),
		slog.String("name", category.Name),
	)

	return nil
}

// DeleteCategory removes a category by slug. Admin only.
//
// Titles referencing the category are detached, not deleted; the database
// handles that with ON DELETE SET NULL.
func (service *Service) DeleteCategory(context context.Context, actor *sec.AuthClaims, categorySlug string) error {
	if err := sec.CanWriteCatalog(actor); err != nil {
		return err
	}

	if err := service.repo.DeleteBySlug(context, categorySlug); err != nil {
		return err
	}

	service.logger.Info("category_deleted", slog.String("slug", categorySlug))
	return nil
}
