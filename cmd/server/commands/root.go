package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile      string
	databasePath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "conduit",
	Short: "Conduit - article publishing API",
	Long: `Conduit serves the article publishing JSON API: accounts, profiles,
articles with tags and favorites, and comments.

Configuration is read from the environment, optionally seeded from a .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "", "SQLite database path (overrides DATABASE_PATH)")
}
