// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/dberr"
)

const conflictAlreadyReviewed = "You have already reviewed this title"

// PostgresRepository implements [Repository] on top of pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) TitleExists(context context.Context, titleID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.RefTitle.Table, schema.RefTitle.ID)

	var exists bool
	if err := repository.db.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "")
	}
	return exists, nil
}

// # Reviews

func (repository *PostgresRepository) ListReviews(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.RefReview.Table, schema.RefReview.TitleID)
	var total int
	if err := repository.db.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s a ON a.%s = r.%s
		WHERE r.%s = $1
		ORDER BY r.%s ASC
		LIMIT $2 OFFSET $3`,
		schema.RefReview.ID, schema.RefReview.TitleID, schema.RefReview.AuthorID, schema.RefAccount.Username,
		schema.RefReview.Text, schema.RefReview.Score, schema.RefReview.CreatedAt, schema.RefReview.UpdatedAt,
		schema.RefReview.Table, schema.RefAccount.Table,
		schema.RefAccount.ID, schema.RefReview.AuthorID,
		schema.RefReview.TitleID, schema.RefReview.ID,
	)

	rows, err := repository.db.Query(context, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	for rows.Next() {
		r := &Review{}
		if err := rows.Scan(&r.ID, &r.TitleID, &r.AuthorID, &r.Author, &r.Text, &r.Score, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		reviews = append(reviews, r)
	}

	return reviews, total, nil
}

func (repository *PostgresRepository) FindReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s a ON a.%s = r.%s
		WHERE r.%s = $1 AND r.%s = $2`,
		schema.RefReview.ID, schema.RefReview.TitleID, schema.RefReview.AuthorID, schema.RefAccount.Username,
		schema.RefReview.Text, schema.RefReview.Score, schema.RefReview.CreatedAt, schema.RefReview.UpdatedAt,
		schema.RefReview.Table, schema.RefAccount.Table,
		schema.RefAccount.ID, schema.RefReview.AuthorID,
		schema.RefReview.TitleID, schema.RefReview.ID,
	)

	r := &Review{}
	err := repository.db.QueryRow(context, query, titleID, reviewID).
		Scan(&r.ID, &r.TitleID, &r.AuthorID, &r.Author, &r.Text, &r.Score, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return r, nil
}

func (repository *PostgresRepository) CreateReview(context context.Context, review *Review) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s, %s, %s`,
		schema.RefReview.Table,
		schema.RefReview.TitleID, schema.RefReview.AuthorID, schema.RefReview.Text, schema.RefReview.Score,
		schema.RefReview.ID, schema.RefReview.CreatedAt, schema.RefReview.UpdatedAt)

	err := repository.db.QueryRow(context, query, review.TitleID, review.AuthorID, review.Text, review.Score).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, conflictAlreadyReviewed)
	}
	return nil
}

func (repository *PostgresRepository) UpdateReview(context context.Context, review *Review) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = now() WHERE %s = $3`,
		schema.RefReview.Table,
		schema.RefReview.Text, schema.RefReview.Score, schema.RefReview.UpdatedAt, schema.RefReview.ID)

	tag, err := repository.db.Exec(context, query, review.Text, review.Score, review.ID)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteReview(context context.Context, reviewID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.RefReview.Table, schema.RefReview.ID)

	tag, err := repository.db.Exec(context, query, reviewID)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Comments

func (repository *PostgresRepository) ListComments(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.RefComment.Table, schema.RefComment.ReviewID)
	var total int
	if err := repository.db.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s, c.%s
		FROM %s c
		JOIN %s a ON a.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC
		LIMIT $2 OFFSET $3`,
		schema.RefComment.ID, schema.RefComment.ReviewID, schema.RefComment.AuthorID, schema.RefAccount.Username,
		schema.RefComment.Text, schema.RefComment.CreatedAt, schema.RefComment.UpdatedAt,
		schema.RefComment.Table, schema.RefAccount.Table,
		schema.RefAccount.ID, schema.RefComment.AuthorID,
		schema.RefComment.ReviewID, schema.RefComment.ID,
	)

	rows, err := repository.db.Query(context, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		comments = append(comments, c)
	}

	return comments, total, nil
}

func (repository *PostgresRepository) FindComment(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s, c.%s
		FROM %s c
		JOIN %s a ON a.%s = c.%s
		WHERE c.%s = $1 AND c.%s = $2`,
		schema.RefComment.ID, schema.RefComment.ReviewID, schema.RefComment.AuthorID, schema.RefAccount.Username,
		schema.RefComment.Text, schema.RefComment.CreatedAt, schema.RefComment.UpdatedAt,
		schema.RefComment.Table, schema.RefAccount.Table,
		schema.RefAccount.ID, schema.RefComment.AuthorID,
		schema.RefComment.ReviewID, schema.RefComment.ID,
	)

	c := &Comment{}
	err := repository.db.QueryRow(context, query, reviewID, commentID).
		Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return c, nil
}

func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s, %s, %s`,
		schema.RefComment.Table,
		schema.RefComment.ReviewID, schema.RefComment.AuthorID, schema.RefComment.Text,
		schema.RefComment.ID, schema.RefComment.CreatedAt, schema.RefComment.UpdatedAt)

	err := repository.db.QueryRow(context, query, comment.ReviewID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	return nil
}

func (repository *PostgresRepository) UpdateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = now() WHERE %s = $2`,
		schema.RefComment.Table,
		schema.RefComment.Text, schema.RefComment.UpdatedAt, schema.RefComment.ID)

	tag, err := repository.db.Exec(context, query, comment.Text, comment.ID)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteComment(context context.Context, commentID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.RefComment.Table, schema.RefComment.ID)

	tag, err := repository.db.Exec(context, query, commentID)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
