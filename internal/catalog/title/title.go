// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title defines the central aggregate of the Kritika catalogue.

A title is a reviewable work (a book, a film, an album). Users never create
titles; administrators curate the catalogue and users attach reviews to it.

Core Responsibility:

  - Classification: Binds a title to one optional category and any set of genres.
  - Rating: Exposes the derived community score (mean of review scores).
  - Discovery: Supports filtering by name, year, category and genre.

The rating is never stored on the title row. It is an aggregate computed from
the reviews and cached, so it can not drift from its source.
*/
package title

import (
	"time"

	"github.com/taibuivan/kritika/internal/catalog/category"
	"github.com/taibuivan/kritika/internal/catalog/genre"
)

// # Core Entity

// Title represents a single reviewable work in the catalogue.
type Title struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"` // Release/publication year
	Description string   `json:"description"`
	Rating      *float64 `json:"rating"` // Mean review score; null until the first review exists

	Category *category.Category `json:"category"`
	Genres   []genre.Genre      `json:"genre"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// # Junction Slugs (Input only)
	// Clients reference classification by slug; resolution to IDs happens
	// at persistence time inside one transaction.
	CategorySlug *string  `json:"-"`
	GenreSlugs   []string `json:"-"`
}

// # Discovery Filter

// Filter holds the optional criteria for catalogue discovery queries.
type Filter struct {
	Name         string // Substring match on the title name
	Year         *int   // Exact release year
	CategorySlug string // Category slug
	GenreSlug    string // Genre slug (title must carry it)
}

// UpdateInput carries a partial update. Nil fields are left untouched;
// a non-nil Genres replaces the full genre set.
type UpdateInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}
