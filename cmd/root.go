package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmdPersistentFlags struct {
	LogFile    string
	ConfigFile string
	LogLevel   string
}

// aliases are the alternative long names accepted for some flags.
var aliases = map[string]string{
	"db_u": "db_username",
	"pwd":  "password",
	"dbh":  "database_host",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogFile, "log-file", "", "File to write logs to")
	rootCmd.PersistentFlags().StringVarP(&rootCmdPersistentFlags.ConfigFile, "config", "c", "", "Path to config file (default: search for config.yml in current dir, ~/.chessweb, /etc/chessweb)")
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error) - overrides the debug mode default")

	flags := rootCmd.Flags()
	flags.IntP("port", "p", 10225, "The port to run the web app from")
	flags.Bool("debugModeOn", false, "Run the server in debug mode")
	flags.Bool("debugModeOff", false, "Run the server without debug mode")
	flags.String("db_username", "capstone", "The username for the database (alias --db_u, single dash -db_u is not supported)")
	flags.String("password", "", "The password for the database user (alias --pwd, single dash -pwd is not supported)")
	flags.StringP("db", "d", "ChessWeb", "The name of the database to connect to")
	flags.String("database_host", "localhost", "The host of the database (alias --dbh, single dash -dbh is not supported)")
	rootCmd.MarkFlagsMutuallyExclusive("debugModeOn", "debugModeOff")

	rootCmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		return pflag.NormalizedName(name)
	})
}

var rootCmd = &cobra.Command{
	Use:   "chessweb",
	Short: "ChessWeb is a browser based chess site with user accounts",
	Long:  `ChessWeb serves a chess board and the account pages to sign up, log in and reset passwords. Accounts are stored through stored procedures in a relational database.`,
	Example: `chessweb --port 8080 --db_username capstone --password secret
  chessweb -c /path/to/config.yml --debugModeOn
  chessweb migrate up --dbh db.example.com`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		setLogLevel(rootCmdPersistentFlags.LogLevel)
		logToFile()
	},
	Run: startServer,
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info", "":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Warnf("unknown log level %s, defaulting to info", level)
		log.SetLevel(log.InfoLevel)
	}
}

func logToFile() {
	if rootCmdPersistentFlags.LogFile == "" {
		log.Debug("no log file specified, logging to console only")
		return
	}
	file, err := os.OpenFile(rootCmdPersistentFlags.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		log.Errorf("failed to open log file: %v", err)
		return
	}

	// Create a multi-writer that writes to both console and file
	multiWriter := io.MultiWriter(os.Stderr, file)
	log.SetOutput(multiWriter)
	log.Info("logging to both console and file", "file", rootCmdPersistentFlags.LogFile)
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}
