package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cryolab-data/internal/domain"

	"github.com/google/uuid"
)

// MemoryPostsRepo: 用于 DB 未就绪时的本地联测
type MemoryPostsRepo struct {
	mu    sync.RWMutex
	posts map[string]*domain.Post
}

func NewMemoryPostsRepo() *MemoryPostsRepo {
	return &MemoryPostsRepo{posts: map[string]*domain.Post{}}
}

var _ PostsRepository = (*MemoryPostsRepo)(nil)

func (r *MemoryPostsRepo) GetPost(_ context.Context, postID string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryPostsRepo) ListPosts(_ context.Context, page, size int) ([]*domain.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*domain.Post
	for _, p := range r.posts {
		cp := *p
		all = append(all, &cp)
	}
	// newest first
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	start := (page - 1) * size
	if start >= total {
		return []*domain.Post{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *MemoryPostsRepo) CreatePost(_ context.Context, p *domain.Post) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *p
	if cp.PostID == "" {
		cp.PostID = uuid.NewString()
	}
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.posts[cp.PostID] = &cp
	return cp.PostID, nil
}

func (r *MemoryPostsRepo) UpdatePost(_ context.Context, postID string, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.posts[postID]
	if !ok {
		return fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}
	cp := *p
	cp.PostID = postID
	cp.CreatedAt = old.CreatedAt
	cp.UpdatedAt = time.Now()
	r.posts[postID] = &cp
	return nil
}

func (r *MemoryPostsRepo) DeletePost(_ context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[postID]; !ok {
		return fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}
	delete(r.posts, postID)
	return nil
}
