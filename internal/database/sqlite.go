package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ DB = (*Client)(nil) // Ensure Client implements DB

// Account is the row the sqlite backend keeps per user.
type Account struct {
	gorm.Model
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}

// Client emulates the account procedures on a local sqlite file.
type Client struct {
	db *gorm.DB
}

// New opens the sqlite database at dbpath and migrates the accounts table.
func New(dbpath string) (*Client, error) {
	if dir := filepath.Dir(dbpath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbpath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(&Account{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Client{db: db}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *Client) AddUser(ctx context.Context, firstName, lastName, username, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	account := Account{
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := c.db.WithContext(ctx).Create(&account).Error; err != nil {
		log.Error("failed to create account", "error", err)
		return 0, err
	}

	id, err := safecast.Convert[int64](account.ID)
	if err != nil {
		return 0, fmt.Errorf("account id out of range: %w", err)
	}
	return id, nil
}

func (c *Client) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Account{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *Client) getAccount(ctx context.Context, username string) (*Account, error) {
	var account Account
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error("failed to get account by username", "error", err)
		return nil, err
	}
	return &account, nil
}

func (c *Client) GetUserID(ctx context.Context, username string) (int64, error) {
	account, err := c.getAccount(ctx, username)
	if err != nil {
		return 0, err
	}
	id, err := safecast.Convert[int64](account.ID)
	if err != nil {
		return 0, fmt.Errorf("account id out of range: %w", err)
	}
	return id, nil
}

func (c *Client) UpdatePassword(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	result := c.db.WithContext(ctx).Model(&Account{}).Where("username = ?", username).Update("password_hash", string(hash))
	if result.Error != nil {
		log.Error("failed to update password", "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Client) CheckPassword(ctx context.Context, username, password string) (bool, error) {
	account, err := c.getAccount(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
