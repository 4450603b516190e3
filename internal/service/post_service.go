package service

import (
	"context"

	"go-gin-gorm-cache/internal/domain"
	"go-gin-gorm-cache/pkg/slug"
	"go-gin-gorm-cache/pkg/utils"
)

type CreatePostInput struct {
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

type PostService struct {
	posts domain.PostRepository
	users domain.UserRepository
}

func NewPostService(posts domain.PostRepository, users domain.UserRepository) *PostService {
	return &PostService{posts: posts, users: users}
}

// Create resolves the author first, so an unknown user id fails before
// anything is written.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*domain.Post, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	p := &domain.Post{
		ID:     utils.NewID(),
		Title:  in.Title,
		Body:   in.Body,
		UserID: u.ID,
	}
	beforeWrite(p)
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns every post with its author joined in. Authors are fetched
// in one batch; a post whose author is gone gets a nil User.
func (s *PostService) List(ctx context.Context) ([]domain.PostView, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.UserID]; !ok {
			seen[p.UserID] = struct{}{}
			ids = append(ids, p.UserID)
		}
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	views := make([]domain.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, domain.NewPostView(p, byID[p.UserID]))
	}
	return views, nil
}

// beforeWrite derives the fields computed from others on every persist.
func beforeWrite(p *domain.Post) {
	p.Slug = slug.Make(p.Title)
}
