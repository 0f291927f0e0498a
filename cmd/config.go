package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/rogersnm/smoothies/internal/config"
	"github.com/rogersnm/smoothies/internal/form"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure storage and publishing",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Data: %s\n", dataDir)
		fmt.Fprintf(out, "Backend: %s\n", cfg.BackendName())
		if cfg.LogLevel != "" {
			fmt.Fprintf(out, "Log level: %s\n", cfg.LogLevel)
		}
		if cfg.Public == nil {
			fmt.Fprintln(out, "Public store: offline (nothing is mirrored)")
			return nil
		}
		fmt.Fprintf(out, "Public store: %s\n", cfg.Public.URL)
		if key := cfg.Public.APIKey; key != "" {
			fmt.Fprintf(out, "API key: %s...\n", key[:min(8, len(key))])
		}
		return nil
	},
}

var configSetBackendCmd = &cobra.Command{
	Use:       "set-backend <file|sqlite>",
	Short:     "Choose where smoothies are stored",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.Backends,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(config.Backends, args[0]) {
			return fmt.Errorf("unknown backend %q (want one of %v)", args[0], config.Backends)
		}
		return saveBackend(cmd, args[0])
	},
}

func saveBackend(cmd *cobra.Command, backend string) error {
	prev := cfg.BackendName()
	cfg.Backend = backend
	if err := config.Save(dataDir, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backend set to %s\n", backend)
	if prev != backend {
		warnf("existing smoothies stay in the %s backend; they are not copied", prev)
	}
	return nil
}

var configSetPublicCmd = &cobra.Command{
	Use:   "set-public <url>",
	Short: "Mirror published smoothies to a public API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey, _ := cmd.Flags().GetString("api-key")
		cfg.Public = &config.PublicConfig{URL: args[0], APIKey: apiKey}
		if err := config.Save(dataDir, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Public store set to %s\n", args[0])
		return nil
	},
}

var configClearPublicCmd = &cobra.Command{
	Use:   "clear-public",
	Short: "Stop mirroring published smoothies",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Public = nil
		if err := config.Save(dataDir, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Public store cleared")
		return nil
	},
}

var configSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose a storage backend interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := form.Backend(cfg.BackendName())
		if err != nil {
			return err
		}
		return saveBackend(cmd, backend)
	},
}

func init() {
	configSetPublicCmd.Flags().String("api-key", "", "API key sent as a bearer token")

	configCmd.AddCommand(configShowCmd, configSetBackendCmd, configSetPublicCmd, configClearPublicCmd, configSetupCmd)
	rootCmd.AddCommand(configCmd)
}
