// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/irt-engine/internal/answerkey"
	"github.com/pdiddy/irt-engine/internal/model"
	"github.com/pdiddy/irt-engine/internal/pattern"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate response patterns from an item bank at given theta values",
	Long: `Generate samples item responses from a calibrated item bank at one or
more latent-trait vectors. Without an answer key the output is a numeric
N x items category matrix; with --key it is a single respondent's
human-readable response labels resolved against the key.

Theta rows are separated by semicolons, dimensions by commas:
  irt-engine generate --bank bank.yaml --theta "0,1.5;2,0;-2,-1"`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("bank", "", "item-parameter YAML file (or generate.bank_path in config)")
	generateCmd.Flags().String("key", "", "answer-key file (CSV or YAML): emit labeled responses")
	generateCmd.Flags().String("theta", "", "trait values: rows separated by ';', dimensions by ','")
	generateCmd.Flags().String("theta-file", "", "YAML file holding a trait vector or matrix")
	generateCmd.Flags().Int64("seed", 0, "random seed (0 = time-seeded)")
	generateCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	bankPath := stringSetting(cmd, "bank", "generate.bank_path")
	if bankPath == "" {
		return fmt.Errorf("item bank required: provide --bank or set generate.bank_path")
	}
	bank, err := model.LoadBank(bankPath)
	if err != nil {
		return err
	}

	theta, err := thetaFromFlags(cmd)
	if err != nil {
		return err
	}
	rng := rngFromFlags(cmd)
	jsonOutput, _ := cmd.Flags().GetBool("json")

	keyPath := stringSetting(cmd, "key", "generate.key_path")
	if keyPath != "" {
		key, err := answerkey.Load(keyPath)
		if err != nil {
			return err
		}
		labels, err := pattern.GenerateLabeled(bank, theta, key, rng)
		if err != nil {
			return err
		}
		return formatLabels(labels, jsonOutput)
	}

	pat, err := pattern.Generate(bank, theta, rng)
	if err != nil {
		return err
	}
	return formatPattern(pat, jsonOutput)
}

func formatLabels(labels []string, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(labels)
	}
	for i, label := range labels {
		fmt.Printf("%-4d  %s\n", i+1, label)
	}
	return nil
}

func formatPattern(pat *pattern.Pattern, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pat)
	}
	for _, row := range pat.Data {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = strconv.Itoa(v)
		}
		fmt.Println(strings.Join(fields, " "))
	}
	return nil
}

// --- shared helpers ---

// thetaFromFlags builds the trait matrix from --theta or --theta-file.
func thetaFromFlags(cmd *cobra.Command) (pattern.Theta, error) {
	thetaFlag, _ := cmd.Flags().GetString("theta")
	thetaFile, _ := cmd.Flags().GetString("theta-file")

	switch {
	case thetaFlag != "" && thetaFile != "":
		return pattern.Theta{}, fmt.Errorf("provide --theta or --theta-file, not both")
	case thetaFile != "":
		return pattern.ReadThetaFile(thetaFile)
	case thetaFlag != "":
		return parseThetaFlag(thetaFlag)
	default:
		return pattern.Theta{}, fmt.Errorf("trait values required: provide --theta or --theta-file")
	}
}

// parseThetaFlag parses "0,1.5;2,0" into a trait matrix: rows split on
// ';', dimensions on ','.
func parseThetaFlag(s string) (pattern.Theta, error) {
	var rows [][]float64
	for _, rowText := range strings.Split(s, ";") {
		var row []float64
		for _, field := range strings.Split(rowText, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return pattern.Theta{}, fmt.Errorf("parsing theta value %q: %w", field, err)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	if len(rows) == 1 {
		return pattern.ThetaVector(rows[0]), nil
	}
	return pattern.ThetaMatrix(rows)
}

func rngFromFlags(cmd *cobra.Command) *rand.Rand {
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = viper.GetInt64("generate.seed")
	}
	if seed == 0 {
		return nil // pattern falls back to a time-seeded generator
	}
	return rand.New(rand.NewSource(seed))
}
