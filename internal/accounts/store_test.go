package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/jon4hz/chessweb/internal/database/mock"
	"github.com/stretchr/testify/assert"
)

var errBackend = errors.New("connection refused")

func TestAddUser(t *testing.T) {
	db := mock.NewMockDB()
	s := New(db)
	ctx := context.Background()

	id := s.AddUser(ctx, "Ada", "Lovelace", "ada", "secret")
	assert.Equal(t, int64(1), id)

	// duplicate usernames fail in the backend
	assert.Equal(t, InvalidID, s.AddUser(ctx, "Ada", "Lovelace", "ada", "secret"))

	db.AddUserError = errBackend
	assert.Equal(t, InvalidID, s.AddUser(ctx, "Bob", "Builder", "bob", "secret"))
}

func TestUsernameExists(t *testing.T) {
	db := mock.NewMockDB()
	db.Seed("Ada", "Lovelace", "ada", "secret")
	s := New(db)
	ctx := context.Background()

	assert.True(t, s.UsernameExists(ctx, "ada"))
	assert.False(t, s.UsernameExists(ctx, "bob"))

	db.UsernameExistsError = errBackend
	assert.False(t, s.UsernameExists(ctx, "ada"))
}

func TestGetUserID(t *testing.T) {
	db := mock.NewMockDB()
	id := db.Seed("Ada", "Lovelace", "ada", "secret")
	s := New(db)
	ctx := context.Background()

	assert.Equal(t, id, s.GetUserID(ctx, "ada"))
	assert.Equal(t, InvalidID, s.GetUserID(ctx, "bob"))

	db.GetUserIDError = errBackend
	assert.Equal(t, InvalidID, s.GetUserID(ctx, "ada"))
}

func TestUpdatePassword(t *testing.T) {
	db := mock.NewMockDB()
	db.Seed("Ada", "Lovelace", "ada", "secret")
	s := New(db)
	ctx := context.Background()

	assert.Equal(t, UpdateSucceeded, s.UpdatePassword(ctx, "ada", "newsecret"))
	assert.True(t, s.CheckPassword(ctx, "ada", "newsecret"))
	assert.False(t, s.CheckPassword(ctx, "ada", "secret"))

	assert.Equal(t, UpdateFailed, s.UpdatePassword(ctx, "bob", "newsecret"))

	db.UpdatePasswordError = errBackend
	assert.Equal(t, UpdateFailed, s.UpdatePassword(ctx, "ada", "other"))
}

func TestCheckPasswordFailsClosed(t *testing.T) {
	db := mock.NewMockDB()
	db.Seed("Ada", "Lovelace", "ada", "secret")
	s := New(db)
	ctx := context.Background()

	assert.True(t, s.CheckPassword(ctx, "ada", "secret"))
	assert.False(t, s.CheckPassword(ctx, "ada", "wrong"))
	assert.False(t, s.CheckPassword(ctx, "bob", "secret"))

	db.CheckPasswordError = errBackend
	assert.False(t, s.CheckPassword(ctx, "ada", "secret"))
}
