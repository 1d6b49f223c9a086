package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyConfig writes an empty config file so Load does not pick up a config.yml from the working dir.
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.IntP("port", "p", 10225, "")
	fs.Bool("debugModeOn", false, "")
	fs.Bool("debugModeOff", false, "")
	fs.String("db_username", "capstone", "")
	fs.String("password", "", "")
	fs.StringP("db", "d", "ChessWeb", "")
	fs.String("database_host", "localhost", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(emptyConfig(t), nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 10225, cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 31536000, cfg.RememberMaxAge)
	assert.Equal(t, "0.0.0.0:10225", cfg.Addr())

	require.NotNil(t, cfg.Database)
	assert.Equal(t, DatabaseDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "capstone", cfg.Database.User)
	assert.Equal(t, "", cfg.Database.Password)
	assert.Equal(t, "ChessWeb", cfg.Database.Name)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
port: 8080
debug: true
database:
  driver: sqlite
  path: /tmp/chess.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, DatabaseDriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/chess.db", cfg.Database.Path)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 8080\n"), 0o600))

	t.Setenv("CHESSWEB_PORT", "9090")
	t.Setenv("CHESSWEB_DATABASE_USER", "alice")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "alice", cfg.Database.User)
}

func TestLoadFlags(t *testing.T) {
	t.Setenv("CHESSWEB_PORT", "9090")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{
		"--port", "7000",
		"--db_username", "bob",
		"--password", "hunter2",
		"-d", "Games",
		"--database_host", "db.internal",
		"--debugModeOn",
	}))

	cfg, err := Load(emptyConfig(t), fs)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "bob", cfg.Database.User)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Equal(t, "Games", cfg.Database.Name)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoadUnchangedFlagsKeepEnv(t *testing.T) {
	t.Setenv("CHESSWEB_PORT", "9090")

	fs := testFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(emptyConfig(t), fs)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.Debug)
}

func TestLoadDebugModeOff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0o600))

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--debugModeOff"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.False(t, cfg.Debug)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"), nil)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Host:           "0.0.0.0",
			Port:           10225,
			RememberMaxAge: 60,
			Database: &DatabaseConfig{
				Driver: DatabaseDriverPostgres,
				Host:   "localhost",
				Name:   "ChessWeb",
				Path:   "./chess.db",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }, wantErr: true},
		{name: "non positive remember age", mutate: func(c *Config) { c.RememberMaxAge = 0 }, wantErr: true},
		{name: "missing database", mutate: func(c *Config) { c.Database = nil }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "postgres without host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: true},
		{name: "postgres without name", mutate: func(c *Config) { c.Database.Name = "" }, wantErr: true},
		{name: "sqlite", mutate: func(c *Config) { c.Database.Driver = DatabaseDriverSQLite; c.Database.Host = "" }},
		{name: "sqlite without path", mutate: func(c *Config) {
			c.Database.Driver = DatabaseDriverSQLite
			c.Database.Path = ""
		}, wantErr: true},
		{name: "short session key only warns", mutate: func(c *Config) { c.SessionKey = "short" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := validateConfig(c)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Error(t, validateConfig(nil))
}
