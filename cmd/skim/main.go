package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	dbPath     string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "skim",
	Short: "Keyboard-driven terminal feed reader",
	Long: `Keyboard-driven terminal feed reader.

Run without arguments to open the reader. Single keys drive it:
j/k walk articles, m/s toggle read and star, r syncs every feed
and shows what is unread, ? lists the rest.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to configuration file")
	flags.StringVar(&dbPath, "db", "", "path to database file (overrides config)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error or off (overrides config)")

	configCmd.AddCommand(configGenCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(Version)); err != nil {
		os.Exit(1)
	}
}
