package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/chessweb/internal/config"
	"github.com/jon4hz/chessweb/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Install or remove the reference schema with the users table and the account procedures.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigration(cmd, database.Up)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigration(cmd, database.Down)
	},
}

func init() {
	// connection flags, same names as on the server
	for _, c := range []*cobra.Command{migrateUpCmd, migrateDownCmd} {
		flags := c.Flags()
		flags.String("db_username", "capstone", "The username for the database (alias --db_u)")
		flags.String("password", "", "The password for the database user (alias --pwd)")
		flags.StringP("db", "d", "ChessWeb", "The name of the database to connect to")
		flags.String("database_host", "localhost", "The host of the database (alias --dbh)")
	}

	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func runMigration(cmd *cobra.Command, dir database.Direction) error {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch cfg.Database.Driver {
	case config.DatabaseDriverPostgres:
		if err := database.Migrate(cfg.Database, dir); err != nil {
			return err
		}
	case config.DatabaseDriverSQLite:
		if dir == database.Down {
			return fmt.Errorf("migrate down is not supported for the sqlite driver, delete %s instead", cfg.Database.Path)
		}
		// opening the sqlite database migrates it
		db, err := database.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint:errcheck
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	log.Info("Database migrations completed successfully!", "direction", dir)
	return nil
}
