package repo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"gorm.io/gorm"

	"go-gin-gorm-cache/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

var _ domain.PostRepository = (*PostRepo)(nil)

// Create enforces body uniqueness through a digest column, so bodies of any
// length are accepted on every engine.
func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	p.BodyHash = bodyHash(p.Body)
	return translate("create post", r.db.WithContext(ctx).Create(p).Error)
}

func (r *PostRepo) List(ctx context.Context) ([]domain.Post, error) {
	posts := []domain.Post{}
	if err := r.db.WithContext(ctx).Find(&posts).Error; err != nil {
		return nil, translate("list posts", err)
	}
	return posts, nil
}

func bodyHash(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}
