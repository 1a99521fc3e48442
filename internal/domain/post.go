package domain

import "time"

// Post 实验室内部博客文章（对应 posts 表）
type Post struct {
	PostID    string    `db:"post_id" json:"post_id"` // UUID, PRIMARY KEY
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	Author    string    `db:"author" json:"author"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
