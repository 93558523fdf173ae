package post

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sql.DB, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

const selectPostQuery = `
	SELECT id, trip_id, user_id, caption, created_at, deleted_at
	FROM posts`

// Create inserts a new post with a generated UUID.
func (r *PostgresRepository) Create(ctx context.Context, p *Post) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, trip_id, user_id, caption, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.TripID, p.UserID, p.Caption, p.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert post",
			slog.String("post_id", p.ID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by its UUID, excluding soft-deleted posts.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	row := r.db.QueryRowContext(ctx,
		selectPostQuery+` WHERE id = $1 AND deleted_at IS NULL`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query post: %w", err)
	}
	return p, nil
}

// Delete soft-deletes a post by setting deleted_at.
// Deleting an already-deleted post reports not found.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ListRecent retrieves posts in recency order, resuming after the cursor.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int, cursor string) ([]*Post, error) {
	query := selectPostQuery + ` WHERE deleted_at IS NULL`
	args := []any{}

	if cursor != "" {
		// Resolve the cursor post's position in the recency order. An
		// unknown cursor (post deleted since the last page) yields an
		// empty result rather than an error.
		var createdAt time.Time
		err := r.db.QueryRowContext(ctx,
			`SELECT created_at FROM posts WHERE id = $1`, cursor).Scan(&createdAt)
		if err == sql.ErrNoRows {
			return []*Post{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cursor: %w", err)
		}
		query += ` AND (created_at < $1 OR (created_at = $1 AND id > $2))`
		args = append(args, createdAt, cursor)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, id ASC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for scanPost.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*Post, error) {
	var p Post
	var deletedAt sql.NullTime
	err := s.Scan(&p.ID, &p.TripID, &p.UserID, &p.Caption, &p.CreatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.Time
	}
	return &p, nil
}
