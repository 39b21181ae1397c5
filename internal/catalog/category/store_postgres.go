package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/dberr"
)

const conflictSlugTaken = "Category with this slug already exists"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*Category, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = fmt.Sprintf("WHERE %s ILIKE '%%' || $1 || '%%'", schema.RefCategory.Name)
		args = append(args, search)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, schema.RefCategory.Table, where)
	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s %s ORDER BY %s ASC LIMIT $%d OFFSET $%d`,
		schema.RefCategory.ID, schema.RefCategory.Name, schema.RefCategory.Slug, schema.RefCategory.CreatedAt,
		schema.RefCategory.Table, where, schema.RefCategory.Name, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		categories = append(categories, c)
	}

	return categories, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.RefCategory.ID, schema.RefCategory.Name, schema.RefCategory.Slug, schema.RefCategory.CreatedAt,
		schema.RefCategory.Table, schema.RefCategory.Slug)

	c := &Category{}
	err := repository.db.QueryRow(context, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s, %s`,
		schema.RefCategory.Table, schema.RefCategory.Name, schema.RefCategory.Slug,
		schema.RefCategory.ID, schema.RefCategory.CreatedAt)

	err := repository.db.QueryRow(context, query, category.Name, category.Slug).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, conflictSlugTaken)
	}
	return nil
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RefCategory.Table, schema.RefCategory.Slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
