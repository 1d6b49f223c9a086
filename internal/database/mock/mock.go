package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/jon4hz/chessweb/internal/database"
)

var _ database.DB = (*MockDB)(nil)

// User is an account held by MockDB.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	users      map[string]*User
	nextUserID int64
	closed     bool

	// Error simulation
	AddUserError        error
	UsernameExistsError error
	GetUserIDError      error
	UpdatePasswordError error
	CheckPasswordError  error

	// Call counters
	AddUserCalls        int
	UpdatePasswordCalls int
	CheckPasswordCalls  int
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	return &MockDB{
		users:      make(map[string]*User),
		nextUserID: 1,
	}
}

// Reset clears all data, errors and counters from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[string]*User)
	m.nextUserID = 1
	m.closed = false

	m.AddUserError = nil
	m.UsernameExistsError = nil
	m.GetUserIDError = nil
	m.UpdatePasswordError = nil
	m.CheckPasswordError = nil

	m.AddUserCalls = 0
	m.UpdatePasswordCalls = 0
	m.CheckPasswordCalls = 0
}

// Seed stores a user directly and returns its id.
func (m *MockDB) Seed(firstName, lastName, username, password string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(firstName, lastName, username, password)
}

// User returns a copy of the stored user.
func (m *MockDB) User(username string) (User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return User{}, false
	}
	return *u, true
}

// Closed reports whether Close was called.
func (m *MockDB) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

func (m *MockDB) insert(firstName, lastName, username, password string) int64 {
	id := m.nextUserID
	m.nextUserID++
	m.users[username] = &User{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Password:  password,
	}
	return id
}

func (m *MockDB) AddUser(ctx context.Context, firstName, lastName, username, password string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddUserCalls++

	if m.AddUserError != nil {
		return 0, m.AddUserError
	}
	if _, ok := m.users[username]; ok {
		return 0, fmt.Errorf("duplicate username %q", username)
	}
	return m.insert(firstName, lastName, username, password), nil
}

func (m *MockDB) UsernameExists(ctx context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.UsernameExistsError != nil {
		return false, m.UsernameExistsError
	}
	_, ok := m.users[username]
	return ok, nil
}

func (m *MockDB) GetUserID(ctx context.Context, username string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetUserIDError != nil {
		return 0, m.GetUserIDError
	}
	u, ok := m.users[username]
	if !ok {
		return 0, database.ErrNotFound
	}
	return u.ID, nil
}

func (m *MockDB) UpdatePassword(ctx context.Context, username, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePasswordCalls++

	if m.UpdatePasswordError != nil {
		return m.UpdatePasswordError
	}
	u, ok := m.users[username]
	if !ok {
		return database.ErrNotFound
	}
	u.Password = password
	return nil
}

func (m *MockDB) CheckPassword(ctx context.Context, username, password string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckPasswordCalls++

	if m.CheckPasswordError != nil {
		return false, m.CheckPasswordError
	}
	u, ok := m.users[username]
	if !ok {
		return false, nil
	}
	return u.Password == password, nil
}

func (m *MockDB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
