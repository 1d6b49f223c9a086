package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverPostgres DatabaseDriver = "postgres"
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
)

// Config holds the configuration for the ChessWeb server.
type Config struct {
	// Host is the interface the web server binds to.
	Host string `yaml:"host" mapstructure:"host"`
	// Port is the port the web server listens on.
	Port int `yaml:"port" mapstructure:"port"`
	// Debug enables gin debug mode and verbose request logging.
	Debug bool `yaml:"debug" mapstructure:"debug"`
	// SessionKey is the key used to sign session cookies.
	// A random key is generated on every start if it is empty, which logs everybody out on restart.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// RememberMaxAge is how long, in seconds, a "remember me" login survives.
	RememberMaxAge int `yaml:"remember_max_age" mapstructure:"remember_max_age"`
	// SecureCookies marks the session cookie as https only.
	SecureCookies bool `yaml:"secure_cookies" mapstructure:"secure_cookies"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Driver selects the account backend: "postgres" calls the stored procedures,
	// "sqlite" emulates them in a local file for development.
	Driver DatabaseDriver `yaml:"driver" mapstructure:"driver"`
	// Host is the database host.
	Host string `yaml:"host" mapstructure:"host"`
	// Port is the database port.
	Port int `yaml:"port" mapstructure:"port"`
	// User is the database user.
	User string `yaml:"user" mapstructure:"user"`
	// Password is the database password.
	Password string `yaml:"password" mapstructure:"password"`
	// Name is the name of the database.
	Name string `yaml:"name" mapstructure:"name"`
	// SSLMode is passed to postgres as sslmode.
	SSLMode string `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	// Path is the database file used by the sqlite driver.
	Path string `yaml:"path" mapstructure:"path"`
}

// Addr returns the listen address of the web server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// flagKeys maps command line flags to their config keys.
var flagKeys = map[string]string{
	"port":          "port",
	"db_username":   "database.user",
	"password":      "database.password",
	"db":            "database.name",
	"database_host": "database.host",
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
// Values are taken, in order of precedence, from changed command line flags,
// CHESSWEB_ environment variables, the config file and the defaults.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if os.Getenv("CHESSWEB_ENV") == "dev" {
		if err := godotenv.Load(); err != nil {
			log.Debug("no .env file loaded", "error", err)
		}
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	// Configure Viper
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CHESSWEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	var configFileFound bool
	if path != "" {
		// Use specific config file
		v.SetConfigFile(path)
	} else {
		// Search for config in common locations
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.chessweb")
		v.AddConfigPath("/etc/chessweb")
	}

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Environment variables with CHESSWEB_ prefix will override config file values")
	}

	// Validate required configs
	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}

	// the debug switch is split over two mutually exclusive flags
	if f := flags.Lookup("debugModeOn"); f != nil && f.Changed {
		v.Set("debug", true)
	}
	if f := flags.Lookup("debugModeOff"); f != nil && f.Changed {
		v.Set("debug", false)
	}
	return nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 10225)
	v.SetDefault("debug", false)
	v.SetDefault("session_key", "")
	v.SetDefault("remember_max_age", 365*24*60*60) // one year
	v.SetDefault("secure_cookies", false)

	// Database defaults
	v.SetDefault("database.driver", DatabaseDriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "capstone")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "ChessWeb")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.path", "./data/chessweb.db")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing chessweb config")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.RememberMaxAge <= 0 {
		return fmt.Errorf("remember_max_age must be positive")
	}

	if c.SessionKey != "" && len(c.SessionKey) < 32 {
		log.Warn("session key is shorter than 32 bytes, consider using a longer one")
	}

	if c.Database == nil {
		return fmt.Errorf("missing database config")
	}

	switch c.Database.Driver {
	case DatabaseDriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required for the postgres driver")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database name is required for the postgres driver")
		}
	case DatabaseDriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	return nil
}
