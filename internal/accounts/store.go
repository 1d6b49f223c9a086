// Package accounts exposes the user procedures to the web layer.
// Backend errors are logged and collapsed into sentinel results.
package accounts

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/chessweb/internal/database"
)

const (
	// InvalidID is returned instead of a user id when a lookup or insert fails.
	InvalidID int64 = -1

	UpdateSucceeded = 1
	UpdateFailed    = -1
)

// Store wraps a database.Procedures backend.
type Store struct {
	db database.Procedures
}

// New returns a Store backed by db.
func New(db database.Procedures) *Store {
	return &Store{db: db}
}

// AddUser creates a user and returns its id, or InvalidID.
func (s *Store) AddUser(ctx context.Context, firstName, lastName, username, password string) int64 {
	id, err := s.db.AddUser(ctx, firstName, lastName, username, password)
	if err != nil {
		log.Error("add_user error", "error", err)
		return InvalidID
	}
	return id
}

// UsernameExists reports whether username is taken. Errors count as false.
func (s *Store) UsernameExists(ctx context.Context, username string) bool {
	exists, err := s.db.UsernameExists(ctx, username)
	if err != nil {
		log.Error("does_username_exist error", "error", err)
		return false
	}
	return exists
}

// GetUserID returns the id of username, or InvalidID.
func (s *Store) GetUserID(ctx context.Context, username string) int64 {
	id, err := s.db.GetUserID(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		log.Debug("get_user_id: no such user", "username", username)
		return InvalidID
	}
	if err != nil {
		log.Error("get_user_id error", "error", err)
		return InvalidID
	}
	return id
}

// UpdatePassword returns UpdateSucceeded or UpdateFailed.
func (s *Store) UpdatePassword(ctx context.Context, username, password string) int {
	if err := s.db.UpdatePassword(ctx, username, password); err != nil {
		log.Error("update_pwd error", "error", err)
		return UpdateFailed
	}
	return UpdateSucceeded
}

// CheckPassword reports whether the credentials match. Errors count as a mismatch.
func (s *Store) CheckPassword(ctx context.Context, username, password string) bool {
	ok, err := s.db.CheckPassword(ctx, username, password)
	if err != nil {
		log.Error("check_password error", "error", err)
		return false
	}
	return ok
}
