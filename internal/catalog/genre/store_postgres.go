package genre

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/dberr"
)

const conflictSlugTaken = "Genre with this slug already exists"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*Genre, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = fmt.Sprintf("WHERE %s ILIKE '%%' || $1 || '%%'", schema.RefGenre.Name)
		args = append(args, search)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, schema.RefGenre.Table, where)
	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s %s ORDER BY %s ASC LIMIT $%d OFFSET $%d`,
		schema.RefGenre.ID, schema.RefGenre.Name, schema.RefGenre.Slug, schema.RefGenre.CreatedAt,
		schema.RefGenre.Table, where, schema.RefGenre.Name, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	genres := make([]*Genre, 0)
	for rows.Next() {
		g := &Genre{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		genres = append(genres, g)
	}

	return genres, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Genre, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.RefGenre.ID, schema.RefGenre.Name, schema.RefGenre.Slug, schema.RefGenre.CreatedAt,
		schema.RefGenre.Table, schema.RefGenre.Slug)

	g := &Genre{}
	err := repository.db.QueryRow(context, query, slug).Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return g, nil
}

func (repository *PostgresRepository) Create(context context.Context, genre *Genre) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s, %s`,
		schema.RefGenre.Table, schema.RefGenre.Name, schema.RefGenre.Slug,
		schema.RefGenre.ID, schema.RefGenre.CreatedAt)

	err := repository.db.QueryRow(context, query, genre.Name, genre.Slug).
		Scan(&genre.ID, &genre.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, conflictSlugTaken)
	}
	return nil
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RefGenre.Table, schema.RefGenre.Slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
