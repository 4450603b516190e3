package service

import (
	"context"

	"go-gin-gorm-cache/internal/domain"
	"go-gin-gorm-cache/pkg/utils"
)

type CreateUserInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,max=320"`
	Role  string `json:"role" validate:"required,oneof=user admin superuser"`
}

// UpdateUserInput carries a partial update. Empty fields are treated as
// not provided, so a field cannot be cleared through it.
type UpdateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,max=320"`
	Role  string `json:"role" validate:"omitempty,oneof=user admin superuser"`
}

// Invalidator drops cached reads for the given user ids.
type Invalidator interface {
	Invalidate(ctx context.Context, ids ...string) error
}

type UserService struct {
	repo        domain.UserRepository
	invalidator Invalidator
}

type UserOption func(*UserService)

// WithInvalidator purges cached reads after every successful write.
func WithInvalidator(inv Invalidator) UserOption {
	return func(s *UserService) { s.invalidator = inv }
}

func NewUserService(repo domain.UserRepository, opts ...UserOption) *UserService {
	s := &UserService{repo: repo}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:    utils.NewID(),
		Name:  in.Name,
		Email: in.Email,
		Role:  in.Role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.written(ctx)
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) Search(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	return s.repo.Search(ctx, f)
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.written(ctx, id)
	return u, nil
}

// Delete returns the removed user, or nil if there was none.
func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if u != nil {
		s.written(ctx, id)
	}
	return u, nil
}

func (s *UserService) written(ctx context.Context, ids ...string) {
	if s.invalidator != nil {
		// failures are logged by the cache; entries still expire on their own
		_ = s.invalidator.Invalidate(ctx, ids...)
	}
}
