package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), tui.Banner(Version))
		fmt.Fprintln(cmd.OutOrStdout(), "github.com/pders01/skim")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration file",
	Long:  "Write the default configuration to --config, or to the XDG config directory when unset.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultConfigPath()
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("generating config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh every feed without opening the reader",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		syncErr := rt.syncer.ForceSync(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), tui.MsgSyncSummary(rt.syncer.Last().Summary, rt.docCount()))
		if syncErr != nil {
			return fmt.Errorf("sync: %w", syncErr)
		}
		return nil
	},
}

var addCategory string

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Subscribe to a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		category, err := rt.manager.EnsureCategory(addCategory)
		if err != nil {
			return err
		}
		categoryID := ""
		if category != nil {
			categoryID = category.ID
		}

		f, err := rt.manager.AddFeed(cmd.Context(), args[0], categoryID)
		if err != nil {
			return fmt.Errorf("adding feed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.MsgAddedFeed(f.Title))
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <feed-id-or-url>",
	Short: "Unsubscribe from a feed and delete its articles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		f, err := rt.manager.FindFeed(args[0])
		if err != nil {
			return fmt.Errorf("finding feed %q: %w", args[0], err)
		}
		if err := rt.manager.DeleteFeed(f.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed feed '%s'\n", displayTitle(f.Title, f.URL))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscribed feeds by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		feeds, err := rt.store.GetAllFeeds()
		if err != nil {
			return err
		}
		categories, err := rt.store.GetAllCategories()
		if err != nil {
			return err
		}

		titles := make(map[string]string, len(categories))
		for _, c := range categories {
			titles[c.ID] = c.Title
		}

		out := cmd.OutOrStdout()
		if len(feeds) == 0 {
			fmt.Fprintln(out, "No feeds. Add one with: skim add <url>")
			return nil
		}
		for _, f := range feeds {
			line := fmt.Sprintf("%s  %s  %s", f.ID, displayTitle(f.Title, f.URL), f.URL)
			if t, ok := titles[f.CategoryID]; ok {
				line += "  [" + t + "]"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "category to file the feed under, created when missing")
}

func runTUI(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	app := tui.NewApp(rt.cfg, rt.services())
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func displayTitle(title, url string) string {
	if title != "" {
		return title
	}
	return url
}
