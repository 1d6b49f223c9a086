package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jon4hz/chessweb/internal/config"
)

// ErrNotFound is returned when a user does not exist.
var ErrNotFound = errors.New("not found")

// Procedures are the account operations the relational store exposes.
// Passwords are handed to the backend unchanged, hashing is the backend's business.
type Procedures interface {
	// AddUser creates a user and returns its id.
	AddUser(ctx context.Context, firstName, lastName, username, password string) (int64, error)
	// UsernameExists reports whether a user with the given username exists.
	UsernameExists(ctx context.Context, username string) (bool, error)
	// GetUserID returns the id for username or ErrNotFound.
	GetUserID(ctx context.Context, username string) (int64, error)
	// UpdatePassword replaces the password of username. It returns ErrNotFound for unknown users.
	UpdatePassword(ctx context.Context, username, password string) error
	// CheckPassword reports whether password matches the stored credential of username.
	CheckPassword(ctx context.Context, username, password string) (bool, error)
}

// DB is a Procedures backend holding resources that must be released.
type DB interface {
	Procedures
	Close() error
}

// Open connects to the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	var (
		db  DB
		err error
	)
	switch cfg.Driver {
	case config.DatabaseDriverPostgres:
		db, err = OpenPostgres(ctx, cfg)
	case config.DatabaseDriverSQLite:
		db, err = New(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return db, nil
}
