package domain

import (
	"context"
	"time"
)

type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	BodyHash  string    `gorm:"column:body_hash;size:64;uniqueIndex;not null" json:"-"`
	Slug      string    `gorm:"type:text" json:"slug"`
	UserID    string    `gorm:"column:user_id;size:36;index;not null" json:"user"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }

// PostView is a Post with its user reference resolved. User is nil when
// the referenced user no longer exists.
type PostView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Slug      string    `json:"slug"`
	User      *User     `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewPostView(p Post, u *User) PostView {
	return PostView{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		Slug:      p.Slug,
		User:      u,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	List(ctx context.Context) ([]Post, error)
}
