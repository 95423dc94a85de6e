// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/irt-engine/internal/model"
	"github.com/pdiddy/irt-engine/internal/study"
	"github.com/pdiddy/irt-engine/pkg/types"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Run a Monte Carlo simulation study against an item bank",
	Long: `Study generates many response patterns at fixed trait values and
compares the empirical category frequencies against the model's own
probabilities. The per-cell comparison and the study-wide maximum
deviation are printed; --save persists the study to the results store.`,
	RunE: runStudy,
}

func init() {
	studyCmd.Flags().String("bank", "", "item-parameter YAML file (or study.bank_path in config)")
	studyCmd.Flags().String("theta", "", "trait values: rows separated by ';', dimensions by ','")
	studyCmd.Flags().String("theta-file", "", "YAML file holding a trait vector or matrix")
	studyCmd.Flags().Int("replications", 0, "patterns per theta row (default 1000)")
	studyCmd.Flags().Int("workers", 0, "concurrent sampling workers (default 4)")
	studyCmd.Flags().Int64("seed", 0, "base random seed (0 = time-seeded)")
	studyCmd.Flags().Bool("save", false, "persist the study to the results store")
	studyCmd.Flags().String("results-dir", "results", "base directory for the results store")
	studyCmd.Flags().Bool("json", false, "output the study summary as JSON")

	rootCmd.AddCommand(studyCmd)
}

func runStudy(cmd *cobra.Command, args []string) error {
	bankPath := stringSetting(cmd, "bank", "study.bank_path")
	if bankPath == "" {
		return fmt.Errorf("item bank required: provide --bank or set study.bank_path")
	}
	bank, err := model.LoadBank(bankPath)
	if err != nil {
		return err
	}

	theta, err := thetaFromFlags(cmd)
	if err != nil {
		return err
	}

	params := studyParams(cmd, bank.Name())
	summary, err := study.Run(bank, theta, params, os.Stderr)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		resultsDir, _ := cmd.Flags().GetString("results-dir")
		store, err := study.NewStore(types.StoreConfig{ResultsDir: resultsDir})
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Save(context.Background(), summary)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved study %d\n", id)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSummary(summary, jsonOutput)
}

func studyParams(cmd *cobra.Command, bankName string) study.Params {
	replications, _ := cmd.Flags().GetInt("replications")
	if replications == 0 {
		replications = viper.GetInt("study.replications")
	}
	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = viper.GetInt("study.workers")
	}
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = viper.GetInt64("study.seed")
	}

	return study.Params{
		BankName:     bankName,
		Replications: replications,
		Workers:      workers,
		Seed:         seed,
	}
}

func formatSummary(summary *types.StudySummary, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Printf("%-9s  %-5s  %-8s  %-8s  %-9s  %s\n",
		"ThetaRow", "Item", "Category", "Count", "Observed", "Expected")
	for _, cell := range summary.Frequencies {
		fmt.Printf("%-9d  %-5d  %-8d  %-8d  %-9.4f  %.4f\n",
			cell.ThetaRow, cell.Item, cell.Category, cell.Count, cell.Observed, cell.Expected)
	}
	fmt.Printf("\nmax deviation: %.4f (seed %d)\n", summary.MaxDeviation, summary.Seed)
	return nil
}
