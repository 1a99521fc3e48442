package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cryolab-data/internal/domain"

	"github.com/google/uuid"
)

// PostgresPostsRepository 内部博客Repository实现
type PostgresPostsRepository struct {
	db *sql.DB
}

func NewPostgresPostsRepository(db *sql.DB) *PostgresPostsRepository {
	return &PostgresPostsRepository{db: db}
}

var _ PostsRepository = (*PostgresPostsRepository)(nil)

func (r *PostgresPostsRepository) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	var p domain.Post
	err := r.db.QueryRowContext(ctx,
		`SELECT post_id::text, title, body, author, created_at, updated_at
		 FROM posts WHERE post_id = $1::uuid`,
		postID,
	).Scan(&p.PostID, &p.Title, &p.Body, &p.Author, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &p, nil
}

func (r *PostgresPostsRepository) ListPosts(ctx context.Context, page, size int) ([]*domain.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 20
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id::text, title, body, author, created_at, updated_at
		 FROM posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		size, (page-1)*size,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var out []*domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.PostID, &p.Title, &p.Body, &p.Author, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		out = append(out, &p)
	}
	return out, total, rows.Err()
}

func (r *PostgresPostsRepository) CreatePost(ctx context.Context, p *domain.Post) (string, error) {
	id := p.PostID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (post_id, title, body, author) VALUES ($1::uuid, $2, $3, $4)`,
		id, p.Title, p.Body, p.Author,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert post: %w", err)
	}
	return id, nil
}

func (r *PostgresPostsRepository) UpdatePost(ctx context.Context, postID string, p *domain.Post) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = $2, body = $3, author = $4, updated_at = now()
		 WHERE post_id = $1::uuid`,
		postID, p.Title, p.Body, p.Author,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}
	return nil
}

func (r *PostgresPostsRepository) DeletePost(ctx context.Context, postID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE post_id = $1::uuid", postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}
	return nil
}
