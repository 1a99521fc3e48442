package repository

import (
	"context"

	"cryolab-data/internal/domain"
)

// PostsRepository 内部博客Repository接口
type PostsRepository interface {
	GetPost(ctx context.Context, postID string) (*domain.Post, error)
	ListPosts(ctx context.Context, page, size int) ([]*domain.Post, int, error)
	CreatePost(ctx context.Context, p *domain.Post) (string, error)
	UpdatePost(ctx context.Context, postID string, p *domain.Post) error
	DeletePost(ctx context.Context, postID string) error
}
