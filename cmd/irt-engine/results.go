// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/irt-engine/internal/study"
	"github.com/pdiddy/irt-engine/pkg/types"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage the study results store (list, show, export)",
	Long: `Results manages the local SQLite store of saved simulation studies.
Use subcommands to list stored studies, show one with its frequency
cells, or export a study to YAML or JSON.`,
}

// --- list subcommand ---

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored studies, newest first",
	RunE:  runResultsList,
}

func runResultsList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.List(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No studies saved.")
		return nil
	}

	fmt.Printf("%-4s  %-20s  %-12s  %-12s  %-9s  %s\n",
		"ID", "Bank", "Replications", "Seed", "MaxDev", "Started")
	for _, s := range summaries {
		bank := s.Bank
		if bank == "" {
			bank = "(unnamed)"
		}
		if len(bank) > 20 {
			bank = bank[:17] + "..."
		}
		fmt.Printf("%-4d  %-20s  %-12d  %-12d  %-9.4f  %s\n",
			s.ID, bank, s.Replications, s.Seed, s.MaxDeviation,
			s.StartedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// --- show subcommand ---

var resultsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a stored study with its frequency cells",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsShow,
}

func runResultsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid study ID %q", args[0])
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Get(context.Background(), id)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSummary(summary, jsonOutput)
}

// --- export subcommand ---

var resultsExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a stored study to YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsExport,
}

func runResultsExport(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid study ID %q", args[0])
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background(), id)
	case "json":
		path, err = store.ExportJSON(context.Background(), id)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Println("Exported to", path)
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*study.Store, error) {
	resultsDir, _ := cmd.Flags().GetString("results-dir")
	if resultsDir == "" {
		resultsDir = "results"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return study.NewStore(types.StoreConfig{
		ResultsDir: resultsDir,
		MaxResults: maxResults,
	})
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	resultsCmd.PersistentFlags().String("results-dir", "results", "base directory for the results store (contains index/)")
	resultsCmd.PersistentFlags().Int("max-results", 20, "maximum number of listed studies")

	resultsListCmd.Flags().Bool("json", false, "output as JSON")
	resultsShowCmd.Flags().Bool("json", false, "output as JSON")
	resultsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsShowCmd)
	resultsCmd.AddCommand(resultsExportCmd)

	rootCmd.AddCommand(resultsCmd)
}
