// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/irt-engine/internal/answerkey"
	"github.com/pdiddy/irt-engine/internal/model"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate item bank and answer-key files without sampling",
	Long: `Validate checks that an item bank and/or answer key parses and satisfies
its structural invariants: known item types, matching slope dimensions,
decreasing graded intercepts, single answer columns, answers naming real
options. When both files are given their item counts must match.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("bank", "", "item-parameter YAML file to validate")
	validateCmd.Flags().String("key", "", "answer-key file (CSV or YAML) to validate")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	bankPath, _ := cmd.Flags().GetString("bank")
	keyPath, _ := cmd.Flags().GetString("key")
	if bankPath == "" && keyPath == "" {
		return fmt.Errorf("nothing to validate: provide --bank and/or --key")
	}

	var bank *model.Bank
	if bankPath != "" {
		var err error
		bank, err = model.LoadBank(bankPath)
		if err != nil {
			return err
		}
		fmt.Printf("bank %s: %d items, %d dimensions\n", bankPath, bank.ItemCount(), bank.Dimensions())
		for i := 0; i < bank.ItemCount(); i++ {
			fmt.Printf("  item %d: %d categories, min category %d\n",
				i, bank.Categories(i), bank.MinCategory(i))
		}
	}

	var key *answerkey.Table
	if keyPath != "" {
		var err error
		key, err = answerkey.Load(keyPath)
		if err != nil {
			return err
		}
		scored := 0
		for _, item := range key.Items {
			if item.HasAnswer {
				scored++
			}
		}
		fmt.Printf("key %s: %d items, %d scored\n", keyPath, key.Len(), scored)
	}

	if bank != nil && key != nil && bank.ItemCount() != key.Len() {
		return fmt.Errorf("item count mismatch: bank has %d items, key has %d",
			bank.ItemCount(), key.Len())
	}

	fmt.Println("OK")
	return nil
}
