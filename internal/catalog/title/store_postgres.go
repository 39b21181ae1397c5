// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kritika/internal/catalog/category"
	"github.com/taibuivan/kritika/internal/catalog/genre"
	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/dberr"
	"github.com/taibuivan/kritika/internal/platform/validate"
)

// PostgresRepository implements [Repository] on top of pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Reads

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	conditions := []string{}
	args := []any{}

	if filter.Name != "" {
		args = append(args, filter.Name)
		conditions = append(conditions,
			fmt.Sprintf(`t.%s ILIKE '%%' || $%d || '%%'`, schema.RefTitle.Name, len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		conditions = append(conditions,
			fmt.Sprintf(`t.%s = $%d`, schema.RefTitle.Year, len(args)))
	}
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		conditions = append(conditions,
			fmt.Sprintf(`c.%s = $%d`, schema.RefCategory.Slug, len(args)))
	}
	if filter.GenreSlug != "" {
		args = append(args, filter.GenreSlug)
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s WHERE tg.%s = t.%s AND g.%s = $%d)`,
			schema.RefTitleGenre.Table, schema.RefGenre.Table,
			schema.RefGenre.ID, schema.RefTitleGenre.GenreID,
			schema.RefTitleGenre.TitleID, schema.RefTitle.ID,
			schema.RefGenre.Slug, len(args),
		))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	from := fmt.Sprintf(`FROM %s t LEFT JOIN %s c ON t.%s = c.%s`,
		schema.RefTitle.Table, schema.RefCategory.Table,
		schema.RefTitle.CategoryID, schema.RefCategory.ID)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) %s %s`, from, where)
	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
		       c.%s, c.%s, c.%s,
		       r.rating
		%s
		LEFT JOIN (
			SELECT %s, AVG(%s)::float8 AS rating FROM %s GROUP BY %s
		) r ON r.%s = t.%s
		%s
		ORDER BY t.%s ASC
		LIMIT $%d OFFSET $%d`,
		schema.RefTitle.ID, schema.RefTitle.Name, schema.RefTitle.Year,
		schema.RefTitle.Description, schema.RefTitle.CreatedAt, schema.RefTitle.UpdatedAt,
		schema.RefCategory.ID, schema.RefCategory.Name, schema.RefCategory.Slug,
		from,
		schema.RefReview.TitleID, schema.RefReview.Score, schema.RefReview.Table, schema.RefReview.TitleID,
		schema.RefReview.TitleID, schema.RefTitle.ID,
		where,
		schema.RefTitle.ID, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	titleIDs := make([]int64, 0)
	byID := make(map[int64]*Title)

	for rows.Next() {
		t := &Title{Genres: make([]genre.Genre, 0)}
		var (
			categoryID   *int64
			categoryName *string
			categorySlug *string
		)
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Year, &t.Description, &t.CreatedAt, &t.UpdatedAt,
			&categoryID, &categoryName, &categorySlug,
			&t.Rating,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		if categoryID != nil {
			t.Category = &category.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
		}
		titles = append(titles, t)
		titleIDs = append(titleIDs, t.ID)
		byID[t.ID] = t
	}
	rows.Close()

	if err := repository.attachGenres(context, titleIDs, byID); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
		       c.%s, c.%s, c.%s
		FROM %s t
		LEFT JOIN %s c ON t.%s = c.%s
		WHERE t.%s = $1`,
		schema.RefTitle.ID, schema.RefTitle.Name, schema.RefTitle.Year,
		schema.RefTitle.Description, schema.RefTitle.CreatedAt, schema.RefTitle.UpdatedAt,
		schema.RefCategory.ID, schema.RefCategory.Name, schema.RefCategory.Slug,
		schema.RefTitle.Table, schema.RefCategory.Table,
		schema.RefTitle.CategoryID, schema.RefCategory.ID, schema.RefTitle.ID,
	)

	t := &Title{Genres: make([]genre.Genre, 0)}
	var (
		categoryID   *int64
		categoryName *string
		categorySlug *string
	)
	err := repository.db.QueryRow(context, query, id).Scan(
		&t.ID, &t.Name, &t.Year, &t.Description, &t.CreatedAt, &t.UpdatedAt,
		&categoryID, &categoryName, &categorySlug,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	if categoryID != nil {
		t.Category = &category.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}

	if err := repository.attachGenres(context, []int64{t.ID}, map[int64]*Title{t.ID: t}); err != nil {
		return nil, err
	}

	return t, nil
}

func (repository *PostgresRepository) Rating(context context.Context, id int64) (*float64, error) {
	query := fmt.Sprintf(`SELECT AVG(%s)::float8 FROM %s WHERE %s = $1`,
		schema.RefReview.Score, schema.RefReview.Table, schema.RefReview.TitleID)

	var rating *float64
	if err := repository.db.QueryRow(context, query, id).Scan(&rating); err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return rating, nil
}

// attachGenres hydrates the Genres slice for the given titles in one query.
func (repository *PostgresRepository) attachGenres(context context.Context, titleIDs []int64, byID map[int64]*Title) error {
	if len(titleIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		SELECT tg.%s, g.%s, g.%s, g.%s
		FROM %s tg
		JOIN %s g ON g.%s = tg.%s
		WHERE tg.%s = ANY($1)
		ORDER BY g.%s ASC`,
		schema.RefTitleGenre.TitleID, schema.RefGenre.ID, schema.RefGenre.Name, schema.RefGenre.Slug,
		schema.RefTitleGenre.Table, schema.RefGenre.Table,
		schema.RefGenre.ID, schema.RefTitleGenre.GenreID,
		schema.RefTitleGenre.TitleID, schema.RefGenre.Name,
	)

	rows, err := repository.db.Query(context, query, titleIDs)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	defer rows.Close()

	for rows.Next() {
		var titleID int64
		g := genre.Genre{}
		if err := rows.Scan(&titleID, &g.ID, &g.Name, &g.Slug); err != nil {
			return dberr.Wrap(err, "")
		}
		if t, ok := byID[titleID]; ok {
			t.Genres = append(t.Genres, g)
		}
	}

	return nil
}

// # Writes

func (repository *PostgresRepository) Create(context context.Context, title *Title) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	defer tx.Rollback(context)

	categoryID, err := resolveCategoryID(context, tx, title.CategorySlug)
	if err != nil {
		return err
	}

	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s, %s, %s`,
		schema.RefTitle.Table,
		schema.RefTitle.Name, schema.RefTitle.Year, schema.RefTitle.Description, schema.RefTitle.CategoryID,
		schema.RefTitle.ID, schema.RefTitle.CreatedAt, schema.RefTitle.UpdatedAt)

	err = tx.QueryRow(context, insertQuery, title.Name, title.Year, title.Description, categoryID).
		Scan(&title.ID, &title.CreatedAt, &title.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "")
	}

	if err := replaceGenreLinks(context, tx, title.ID, title.GenreSlugs); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "")
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, title *Title) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	defer tx.Rollback(context)

	// Keep the stored category unless the patch referenced a new slug.
	var categoryID *int64
	if title.Category != nil {
		categoryID = &title.Category.ID
	}
	if title.CategorySlug != nil {
		categoryID, err = resolveCategoryID(context, tx, title.CategorySlug)
		if err != nil {
			return err
		}
	}

	updateQuery := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = now() WHERE %s = $5`,
		schema.RefTitle.Table,
		schema.RefTitle.Name, schema.RefTitle.Year, schema.RefTitle.Description,
		schema.RefTitle.CategoryID, schema.RefTitle.UpdatedAt, schema.RefTitle.ID)

	tag, err := tx.Exec(context, updateQuery, title.Name, title.Year, title.Description, categoryID, title.ID)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	// A non-nil slug set replaces the full genre membership.
	if title.GenreSlugs != nil {
		deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
			schema.RefTitleGenre.Table, schema.RefTitleGenre.TitleID)
		if _, err := tx.Exec(context, deleteQuery, title.ID); err != nil {
			return dberr.Wrap(err, "")
		}
		if err := replaceGenreLinks(context, tx, title.ID, title.GenreSlugs); err != nil {
			return err
		}
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.RefTitle.Table, schema.RefTitle.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// resolveCategoryID maps a category slug reference to its ID. A nil or empty
// slug yields a NULL category. An unknown slug is a client mistake, so it
// maps to a validation error rather than a conflict or 404.
func resolveCategoryID(context context.Context, tx pgx.Tx, categorySlug *string) (*int64, error) {
	if categorySlug == nil || *categorySlug == "" {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.RefCategory.ID, schema.RefCategory.Table, schema.RefCategory.Slug)

	var id int64
	err := tx.QueryRow(context, query, *categorySlug).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, validate.RequiredError("category", "Unknown category slug")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return &id, nil
}

// replaceGenreLinks inserts junction rows for every referenced genre slug.
func replaceGenreLinks(context context.Context, tx pgx.Tx, titleID int64, genreSlugs []string) error {
	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1, %s FROM %s WHERE %s = $2 ON CONFLICT DO NOTHING`,
		schema.RefTitleGenre.Table, schema.RefTitleGenre.TitleID, schema.RefTitleGenre.GenreID,
		schema.RefGenre.ID, schema.RefGenre.Table, schema.RefGenre.Slug)

	for _, genreSlug := range genreSlugs {
		tag, err := tx.Exec(context, insertQuery, titleID, genreSlug)
		if err != nil {
			return dberr.Wrap(err, "")
		}
		if tag.RowsAffected() == 0 {
			return validate.RequiredError("genre", fmt.Sprintf("Unknown genre slug %q", genreSlug))
		}
	}
	return nil
}
