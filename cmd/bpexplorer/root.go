package main

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/vidyasagar/bpexplorer/internal/app"
	"github.com/vidyasagar/bpexplorer/internal/logging"
	"github.com/vidyasagar/bpexplorer/internal/storage"
	"github.com/vidyasagar/bpexplorer/internal/theme"
)

var (
	themeName string
	dataDir   string
	trace     bool
)

var rootCmd = &cobra.Command{
	Use:     "bpexplorer [guid|name]",
	Short:   "Browse a game blueprint dump in the terminal",
	Version: version,
	Long: `bpexplorer shows blueprints from an imported dump, follows the links
between them and keeps a per-tab browsing history.

Examples:
  bpexplorer import blueprints.json             # build the index
  bpexplorer                                    # start empty
  bpexplorer Longsword                          # open the best name match
  bpexplorer 1f0e2c9a-5d4b-4c1e-9a7f-0b1c2d3e4f50  # open by identifier
  bpexplorer --theme nord                       # use the nord theme`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := storage.LoadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("theme") {
			cfg.Theme = themeName
		}
		if !theme.Set(cfg.Theme) {
			return fmt.Errorf("unknown theme %q (available: %s)", cfg.Theme, strings.Join(theme.List(), ", "))
		}

		dir, err := resolveDataDir()
		if err != nil {
			return err
		}
		logging.Configure(filepath.Join(dir, logging.DefaultLogFile))
		logging.SetTraceEnabled(trace || cfg.Trace)

		f, err := tea.LogToFile(logging.Path(), "tea")
		if err != nil {
			return fmt.Errorf("opening log: %w", err)
		}
		defer f.Close()

		db, err := storage.OpenDB(dir)
		if err != nil {
			return err
		}
		defer db.Close()

		catalog, err := storage.NewBlueprintStore(db, cfg.CacheSize)
		if err != nil {
			return err
		}
		if n, err := catalog.Count(); err == nil && n == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "No blueprints indexed yet; run: bpexplorer import <dump.json>\n")
		}

		var start string
		if len(args) > 0 {
			start = args[0]
		}

		m := app.New(app.Options{
			Catalog: catalog,
			Recent:  storage.NewRecentStore(db),
			Config:  cfg,
			Start:   start,
		})
		p := tea.NewProgram(m,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the blueprint index (default: XDG data dir)")
	rootCmd.Flags().StringVar(&themeName, "theme", "default", "color theme ("+strings.Join(theme.List(), ", ")+")")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "write navigation trace events to the log")
	rootCmd.AddCommand(importCmd)
}

func resolveDataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	return storage.DataDir()
}
