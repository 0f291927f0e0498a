package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/spf13/cobra"

	"github.com/rogersnm/smoothies/internal/config"
	"github.com/rogersnm/smoothies/internal/repository"
	"github.com/rogersnm/smoothies/internal/state"
	"github.com/rogersnm/smoothies/internal/store"
	"github.com/rogersnm/smoothies/internal/telemetry"
)

var (
	version   = "dev"
	dataDir   string
	logLevel  string
	ephemeral bool
	cfg       *config.Config
	reg       *store.Registry
	cache     *state.Cache
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".smoothies")
	}
	return filepath.Join(home, ".smoothies")
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{
		Level: lvl,
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func warnf(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

func isConfigCmd(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

var rootCmd = &cobra.Command{
	Use:     "smoothies",
	Short:   "Keep, search and publish smoothie recipes",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		var err error
		cfg, err = config.Load(dataDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		slog.SetDefault(setupLogger(level))

		ctx := cmd.Context()
		if err := telemetry.Init(ctx, "smoothies", version); err != nil {
			warnf("telemetry disabled: %v", err)
		}

		// Config commands work without opening any store
		if isConfigCmd(cmd) {
			return nil
		}
		return openCache(ctx)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		cleanup()
	},
	SilenceUsage: true,
}

// openCache wires the configured stores into a repository and loads the
// state cache every smoothie command works against.
func openCache(ctx context.Context) error {
	reg = store.NewRegistry(cfg, dataDir)
	reg.SetEphemeral(ephemeral)

	primary, err := reg.Primary(ctx)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", reg.BackendName(), err)
	}
	repo := repository.New(
		telemetry.WrapPrimary(primary),
		telemetry.WrapSecondary(reg.Secondary()),
	)
	cache = state.New(repo)
	if err := cache.Load(ctx); err != nil {
		return fmt.Errorf("loading smoothies: %w", err)
	}
	return nil
}

func cleanup() {
	if reg != nil {
		if err := reg.Close(); err != nil {
			slog.Warn("closing store", "error", err)
		}
		reg = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	telemetry.Shutdown(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep smoothies in memory only; nothing is saved")

	mtpOpts := &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"create": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Confirmation line with the new smoothie's name and ID",
				},
				Examples: []mtp.Example{
					{Description: "Create a smoothie from flags", Command: "smoothies create \"Berry Blast\" --ingredient \"Blueberries=150g\" --ingredient \"Almond Milk=200ml\" --tag Fruit"},
					{Description: "Create and publish", Command: "smoothies create \"Mango Mania\" --ingredient \"Mango=2 cups\" --publish"},
					{Description: "Create from a recipe card", Command: "smoothies create --file berry-blast.md"},
					{Description: "Create interactively", Command: "smoothies create"},
				},
			},
			"list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of smoothies with ID, name, ingredient count, tags, and publish status",
				},
				Examples: []mtp.Example{
					{Description: "List every smoothie", Command: "smoothies list"},
					{Description: "List smoothies matching a query", Command: "smoothies list --query \"berry milk\""},
					{Description: "Keep the list open and refresh on change", Command: "smoothies list --watch"},
				},
			},
			"search": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of smoothies whose name, tags, or ingredients contain every query word",
				},
				Examples: []mtp.Example{
					{Description: "Search by ingredient and tag", Command: "smoothies search banana summer"},
				},
			},
			"show": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Recipe card: YAML front matter followed by the ingredient list",
				},
				Examples: []mtp.Example{
					{Description: "Print a recipe card", Command: "smoothies show ab12cd34"},
					{Description: "Render for the terminal", Command: "smoothies show ab12cd34 --pretty"},
				},
			},
			"update": {
				Examples: []mtp.Example{
					{Description: "Rename a smoothie", Command: "smoothies update ab12cd34 --name \"Berry Blast 2\""},
					{Description: "Replace ingredients", Command: "smoothies update ab12cd34 --ingredient \"Banana=1\" --ingredient \"Milk=200ml\""},
					{Description: "Remove all tags", Command: "smoothies update ab12cd34 --clear-tags"},
				},
			},
			"edit": {
				Examples: []mtp.Example{
					{Description: "Edit a recipe card in $EDITOR", Command: "smoothies edit ab12cd34"},
				},
			},
			"delete": {
				Examples: []mtp.Example{
					{Description: "Delete a smoothie (interactive confirm)", Command: "smoothies delete ab12cd34"},
					{Description: "Delete a smoothie (skip confirm)", Command: "smoothies delete ab12cd34 --force"},
				},
			},
			"publish": {
				Examples: []mtp.Example{
					{Description: "Publish a smoothie", Command: "smoothies publish ab12cd34"},
				},
			},
			"unpublish": {
				Examples: []mtp.Example{
					{Description: "Withdraw a published smoothie", Command: "smoothies unpublish ab12cd34"},
				},
			},
			"config set-public": {
				Examples: []mtp.Example{
					{Description: "Mirror published smoothies to a public API", Command: "smoothies config set-public https://api.example.com --api-key sk_123"},
				},
			},
		},
	}

	mtp.WithDescribe(rootCmd, mtpOpts)
}

func Execute() error {
	defer cleanup()
	return rootCmd.Execute()
}
