// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/dberr"
)

const conflictIdentityTaken = "Username or email already registered"

// PostgresRepository implements [Repository] on top of pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.RefAccount.Username, username)
}

func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.RefAccount.Email, email)
}

func (repository *PostgresRepository) findBy(context context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.RefAccount.ID, schema.RefAccount.Username, schema.RefAccount.Email, schema.RefAccount.Role,
		schema.RefAccount.FirstName, schema.RefAccount.LastName, schema.RefAccount.Bio,
		schema.RefAccount.CreatedAt, schema.RefAccount.UpdatedAt,
		schema.RefAccount.Table, column)

	u := &User{}
	err := repository.db.QueryRow(context, query, value).Scan(
		&u.ID, &u.Username, &u.Email, &u.Role,
		&u.FirstName, &u.LastName, &u.Bio,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return u, nil
}

func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s, %s`,
		schema.RefAccount.Table,
		schema.RefAccount.ID, schema.RefAccount.Username, schema.RefAccount.Email, schema.RefAccount.Role,
		schema.RefAccount.CreatedAt, schema.RefAccount.UpdatedAt)

	err := repository.db.QueryRow(context, query, user.ID, user.Username, user.Email, user.Role).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, conflictIdentityTaken)
	}
	return nil
}
