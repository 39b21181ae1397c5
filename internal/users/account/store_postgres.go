// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/dberr"
	"github.com/taibuivan/kritika/internal/users/auth"
)

const conflictIdentityTaken = "Username or email already registered"

// PostgresRepository implements [Repository] on top of pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func accountColumns() string {
	ref := schema.RefAccount
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		ref.ID, ref.Username, ref.Email, ref.Role,
		ref.FirstName, ref.LastName, ref.Bio,
		ref.CreatedAt, ref.UpdatedAt)
}

func scanUser(row interface{ Scan(...any) error }) (*auth.User, error) {
	u := &auth.User{}
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Role,
		&u.FirstName, &u.LastName, &u.Bio,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*auth.User, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = fmt.Sprintf("WHERE %s ILIKE '%%' || $1 || '%%'", schema.RefAccount.Username)
		args = append(args, search)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, schema.RefAccount.Table, where)
	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s ASC LIMIT $%d OFFSET $%d`,
		accountColumns(), schema.RefAccount.Table, where,
		schema.RefAccount.Username, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	users := make([]*auth.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		users = append(users, u)
	}

	return users, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns(), schema.RefAccount.Table, schema.RefAccount.ID)

	u, err := scanUser(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return u, nil
}

func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns(), schema.RefAccount.Table, schema.RefAccount.Username)

	u, err := scanUser(repository.db.QueryRow(context, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return u, nil
}

func (repository *PostgresRepository) Create(context context.Context, user *auth.User) error {
	ref := schema.RefAccount
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING %s, %s`,
		ref.Table,
		ref.ID, ref.Username, ref.Email, ref.Role, ref.FirstName, ref.LastName, ref.Bio,
		ref.CreatedAt, ref.UpdatedAt)

	err := repository.db.QueryRow(context, query,
		user.ID, user.Username, user.Email, user.Role, user.FirstName, user.LastName, user.Bio).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, conflictIdentityTaken)
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, user *auth.User) error {
	ref := schema.RefAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = now() WHERE %s = $7`,
		ref.Table,
		ref.Username, ref.Email, ref.Role, ref.FirstName, ref.LastName, ref.Bio,
		ref.UpdatedAt, ref.ID)

	tag, err := repository.db.Exec(context, query,
		user.Username, user.Email, user.Role, user.FirstName, user.LastName, user.Bio, user.ID)
	if err != nil {
		return dberr.Wrap(err, conflictIdentityTaken)
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteByUsername(context context.Context, username string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RefAccount.Table, schema.RefAccount.Username)

	tag, err := repository.db.Exec(context, query, username)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
