// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the irt-engine CLI.
// Implements: prd001-pattern-generation, prd003-simulation-studies,
//             prd004-results-store (CLI surface).
// See docs/ARCHITECTURE § Command Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the irt-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "irt-engine",
	Short: "Response-pattern generation for fitted IRT models",
	Long: `irt-engine generates synthetic item-response patterns from a fitted
multidimensional IRT model at given latent-trait values. It supports
numeric pattern matrices for Monte Carlo simulation studies and labeled
response vectors resolved against an answer key for realistic test
session demonstrations.

Each operation is a subcommand: generate, study, results, and validate.
Item banks and answer keys are plain YAML/CSV files; study results persist
to a local SQLite store.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./irt-engine.yaml or ~/.config/irt-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("irt-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "irt-engine"))
		}
	}

	viper.SetEnvPrefix("IRT_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting returns the flag value if set, else the config file value.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return viper.GetString(key)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
