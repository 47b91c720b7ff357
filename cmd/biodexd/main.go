package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/sophieizhu/biodex/internal/config"
)

const configFlagName = "config"

func main() {
	rootCmd := &cobra.Command{
		Use:   "biodexd",
		Short: "Biodex species registry",
		Long: `Biodex serves the species and user-profile registry.

Configure through biodex.yaml, BIODEX_* environment variables or flags.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String(configFlagName, "", "path to the yaml config file")

	rootCmd.AddCommand(ServeCMD())
	rootCmd.AddCommand(MigrateCMD())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, hclog.Logger, error) {
	fileName, err := cmd.Flags().GetString(configFlagName)
	if err != nil {
		return config.Config{}, nil, err
	}

	cfg, err := config.Load(fileName)
	if err != nil {
		return config.Config{}, nil, err
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "biodex",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	return cfg, logger, nil
}
