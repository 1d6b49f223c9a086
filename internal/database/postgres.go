package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/chessweb/internal/config"
	_ "github.com/lib/pq"
)

const (
	defaultDBDriver     = "postgres"
	defaultPingTimeout  = 5 * time.Second
	defaultConnMaxIdle  = 2 * time.Minute
	defaultConnMaxLife  = 30 * time.Minute
	defaultMaxIdleConns = 5
	defaultMaxOpenConns = 25
)

var _ DB = (*Postgres)(nil)

// Postgres calls the account stored procedures over database/sql.
type Postgres struct {
	db *sql.DB
}

// PostgresURL builds the postgres:// connection URL for cfg.
func PostgresURL(cfg *config.DatabaseConfig) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		User:   url.UserPassword(cfg.User, cfg.Password),
		Path:   cfg.Name,
	}

	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()

	return u.String()
}

// OpenPostgres opens the connection pool and makes sure the credentials work.
func OpenPostgres(ctx context.Context, cfg *config.DatabaseConfig) (*Postgres, error) {
	db, err := sql.Open(defaultDBDriver, PostgresURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	p := newPostgres(db)

	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database %s on %s: %w", cfg.Name, cfg.Host, err)
	}

	return p, nil
}

func newPostgres(db *sql.DB) *Postgres {
	db.SetConnMaxIdleTime(defaultConnMaxIdle)
	db.SetConnMaxLifetime(defaultConnMaxLife)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetMaxOpenConns(defaultMaxOpenConns)
	return &Postgres{db: db}
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// conn checks out a live connection. A connection failing its ping is
// discarded together with every idle connection, since after a server
// restart they are all stale, and a fresh one is dialed.
func (p *Postgres) conn(ctx context.Context) (*sql.Conn, error) {
	var lastErr error
	for attempt := range 2 {
		conn, err := p.db.Conn(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get connection: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
		err = conn.PingContext(pingCtx)
		cancel()
		if err == nil {
			return conn, nil
		}

		// drop the connection from the pool instead of returning it
		_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		_ = conn.Close()
		lastErr = err
		if attempt == 0 {
			log.Warn("database connection lost, reconnecting", "error", err)
			p.dropIdle()
		}
	}
	return nil, fmt.Errorf("database connection is not alive: %w", lastErr)
}

// dropIdle closes all idle connections of the pool.
func (p *Postgres) dropIdle() {
	p.db.SetMaxIdleConns(0)
	p.db.SetMaxIdleConns(defaultMaxIdleConns)
}

func (p *Postgres) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := p.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close() //nolint:errcheck
	return fn(conn)
}

func (p *Postgres) AddUser(ctx context.Context, firstName, lastName, username, password string) (int64, error) {
	var id sql.NullInt64
	err := p.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, `SELECT add_user($1, $2, $3, $4)`,
			firstName, lastName, username, password).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("add_user: %w", err)
	}
	if !id.Valid {
		return 0, fmt.Errorf("add_user: no id returned")
	}
	return id.Int64, nil
}

func (p *Postgres) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists sql.NullBool
	err := p.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, `SELECT does_username_exist($1)`, username).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("does_username_exist: %w", err)
	}
	return exists.Valid && exists.Bool, nil
}

func (p *Postgres) GetUserID(ctx context.Context, username string) (int64, error) {
	var id sql.NullInt64
	err := p.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, `SELECT get_user_id($1)`, username).Scan(&id)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get_user_id: %w", err)
	}
	if !id.Valid {
		return 0, ErrNotFound
	}
	return id.Int64, nil
}

func (p *Postgres) UpdatePassword(ctx context.Context, username, password string) error {
	err := p.withConn(ctx, func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, `CALL update_pwd($1, $2)`, username, password)
		return err
	})
	if err != nil {
		return fmt.Errorf("update_pwd: %w", err)
	}
	return nil
}

func (p *Postgres) CheckPassword(ctx context.Context, username, password string) (bool, error) {
	var ok sql.NullBool
	err := p.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, `SELECT check_password($1, $2)`, username, password).Scan(&ok)
	})
	if err != nil {
		return false, fmt.Errorf("check_password: %w", err)
	}
	return ok.Valid && ok.Bool, nil
}
