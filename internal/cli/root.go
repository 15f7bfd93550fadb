package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/monarkh/site/internal/config"
)

var (
	dbPath string
	cfg    config.Config
)

var rootCmd = &cobra.Command{
	Use:   "monarkh",
	Short: "monarkh - portfolio site with a server-driven motion runtime",
	Long: `monarkh serves the portfolio and articles pages, stores newsletter
signups in embedded SQLite and drives every reveal, count-up and
carousel of a page view from the server over a websocket.

Running without a subcommand starts the server (same as 'monarkh serve').`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe, // Default action is to start server
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("MONARKH_DB_PATH", "./monarkh.db"), "database path")
}

// loadConfig reads MONARKH_* settings. Flags given on the command line
// take precedence.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded
	cfg.DBPath = dbPath
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
