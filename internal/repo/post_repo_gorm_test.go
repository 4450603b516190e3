package repo

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-gorm-cache/internal/domain"
	"go-gin-gorm-cache/pkg/utils"
)

func TestPostRepoCreateAndList(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserRepo(db)
	posts := NewPostRepo(db)

	u := newUser("Ada", "a@x.com", domain.RoleUser)
	require.NoError(t, users.Create(ctx, u))

	p := &domain.Post{ID: utils.NewID(), Title: "Hello", Body: "first", Slug: "hello", UserID: u.ID}
	require.NoError(t, posts.Create(ctx, p))

	dup := &domain.Post{ID: utils.NewID(), Title: "Again", Body: "first", Slug: "again", UserID: u.ID}
	assert.ErrorIs(t, posts.Create(ctx, dup), domain.ErrConflict)

	list, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "hello", list[0].Slug)
	assert.Equal(t, u.ID, list[0].UserID)
}

func TestPostSurvivesUserDelete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserRepo(db)
	posts := NewPostRepo(db)

	u := newUser("Ada", "a@x.com", domain.RoleUser)
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, posts.Create(ctx, &domain.Post{ID: utils.NewID(), Title: "t", Body: "b", Slug: "t", UserID: u.ID}))

	_, err := users.Delete(ctx, u.ID)
	require.NoError(t, err)

	list, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, u.ID, list[0].UserID)
}

func TestPostRepoBodyUniquenessCoversWholeBody(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserRepo(db)
	posts := NewPostRepo(db)

	u := newUser("Ada", "a@x.com", domain.RoleUser)
	require.NoError(t, users.Create(ctx, u))

	prefix := strings.Repeat("x", 2000)
	a := &domain.Post{ID: utils.NewID(), Title: "a", Body: prefix + "a", Slug: "a", UserID: u.ID}
	b := &domain.Post{ID: utils.NewID(), Title: "b", Body: prefix + "b", Slug: "b", UserID: u.ID}
	require.NoError(t, posts.Create(ctx, a))
	require.NoError(t, posts.Create(ctx, b))
	assert.NotEqual(t, a.BodyHash, b.BodyHash)

	dup := &domain.Post{ID: utils.NewID(), Title: "c", Body: prefix + "a", Slug: "c", UserID: u.ID}
	assert.ErrorIs(t, posts.Create(ctx, dup), domain.ErrConflict)
}
