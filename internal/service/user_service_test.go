package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-gorm-cache/internal/domain"
)

func TestCreateUserValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(setup(t).users)

	cases := []struct {
		name string
		in   CreateUserInput
		msg  string
	}{
		{"missing name", CreateUserInput{Email: "a@x.com", Role: "user"}, "name can't be empty"},
		{"missing email", CreateUserInput{Name: "Ada", Role: "user"}, "email can't be empty"},
		{"missing role", CreateUserInput{Name: "Ada", Email: "a@x.com"}, "role can't be empty"},
		{"bad role", CreateUserInput{Name: "Ada", Email: "a@x.com", Role: "root"}, "role must be one of"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorContains(t, err, tc.msg)
		})
	}
}

func TestCreateUserThenGet(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(setup(t).users)

	u, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "a@x.com", Role: "admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Ada", got.Name)

	_, err = svc.Create(ctx, CreateUserInput{Name: "Other", Email: "a@x.com", Role: "user"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateUserPartial(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(setup(t).users)

	u, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "a@x.com", Role: "user"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, u.ID, UpdateUserInput{Name: ""})
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name, "empty name means not provided")

	got, err = svc.Update(ctx, u.ID, UpdateUserInput{Role: "superuser"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "superuser", got.Role)

	stored, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "superuser", stored.Role)

	_, err = svc.Update(ctx, u.ID, UpdateUserInput{Role: "root"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(ctx, "missing", UpdateUserInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(setup(t).users)

	_, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "a@x.com", Role: "user"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CreateUserInput{Name: "Bob", Email: "b@x.com", Role: "user"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, b.ID, UpdateUserInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(setup(t).users)

	u, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "a@x.com", Role: "user"})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "Ada", deleted.Name)

	deleted, err = svc.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

type recordingInvalidator struct{ calls [][]string }

func (r *recordingInvalidator) Invalidate(_ context.Context, ids ...string) error {
	r.calls = append(r.calls, ids)
	return nil
}

func TestWritesNotifyInvalidator(t *testing.T) {
	ctx := context.Background()
	inv := &recordingInvalidator{}
	svc := NewUserService(setup(t).users, WithInvalidator(inv))

	u, err := svc.Create(ctx, CreateUserInput{Name: "Ada", Email: "a@x.com", Role: "user"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, u.ID, UpdateUserInput{Name: "Ada2"})
	require.NoError(t, err)
	_, err = svc.Delete(ctx, u.ID)
	require.NoError(t, err)
	_, err = svc.Delete(ctx, u.ID)
	require.NoError(t, err)

	require.Len(t, inv.calls, 3)
	assert.Empty(t, inv.calls[0])
	assert.Equal(t, []string{u.ID}, inv.calls[1])
	assert.Equal(t, []string{u.ID}, inv.calls[2])
}

func TestCreateUserLongName(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	svc := NewUserService(f.users)

	name := strings.Repeat("Augusta Ada ", 50)
	u, err := svc.Create(ctx, CreateUserInput{Name: name, Email: "ada@x.com", Role: "user"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
}
