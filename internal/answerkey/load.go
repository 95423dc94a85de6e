// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answerkey

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Load reads an answer-key table from a CSV or YAML file, dispatching on
// the file extension, and validates it.
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("unrecognized answer-key format %q: %w", filepath.Ext(path), ErrInvalidTable)
	}
}

// LoadCSV reads an answer-key table from a CSV file. The header names the
// columns: `option_1..option_k` (any `option` prefix, file order kept), at
// most one `answer` column, and an optional `id` column. Items with fewer
// options leave trailing option cells empty.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading answer key: %w", err)
	}
	defer f.Close()

	table, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("answer key %s: %w", path, err)
	}
	return table, nil
}

// ParseCSV parses CSV answer-key content from r and validates it.
func ParseCSV(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidTable)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("need a header row and at least one item: %w", ErrInvalidTable)
	}

	var optionCols []int
	var idCol = -1
	var answerCols []int
	for i, h := range records[0] {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.HasPrefix(name, "option"):
			optionCols = append(optionCols, i)
		case strings.HasPrefix(name, "answer"):
			answerCols = append(answerCols, i)
		case name == "id" || name == "item":
			idCol = i
		default:
			return nil, fmt.Errorf("unrecognized column %q: %w", h, ErrInvalidTable)
		}
	}
	if len(optionCols) == 0 {
		return nil, fmt.Errorf("no option columns: %w", ErrInvalidTable)
	}
	if len(answerCols) > 1 {
		return nil, fmt.Errorf("%d answer columns: %w", len(answerCols), ErrMultipleAnswers)
	}

	table := &Table{}
	for _, rec := range records[1:] {
		item := Item{}
		if idCol >= 0 {
			item.ID = strings.TrimSpace(rec[idCol])
		}
		for _, c := range optionCols {
			item.Options = append(item.Options, strings.TrimSpace(rec[c]))
		}
		// Narrower items leave trailing option cells empty.
		for len(item.Options) > 0 && item.Options[len(item.Options)-1] == "" {
			item.Options = item.Options[:len(item.Options)-1]
		}
		if len(answerCols) == 1 {
			if answer := strings.TrimSpace(rec[answerCols[0]]); answer != "" {
				item.Answer = answer
				item.HasAnswer = true
			}
		}
		table.Items = append(table.Items, item)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadYAML reads an answer-key table from a YAML file: a top-level list of
// items, each a mapping with `options` (list), optional `answer` (single
// scalar), and optional `id`.
func LoadYAML(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answer key: %w", err)
	}
	table, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("answer key %s: %w", path, err)
	}
	return table, nil
}

// ParseYAML parses YAML answer-key content and validates it. Scalar cells
// that are not plain text (numbers, booleans) are coerced to text and the
// coercion must round-trip against the source representation; otherwise
// ErrDataIntegrity is returned rather than silently remapping values.
func ParseYAML(data []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidTable)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document: %w", ErrInvalidTable)
	}
	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("top level must be a list of items: %w", ErrInvalidTable)
	}

	table := &Table{}
	for i, itemNode := range root.Content {
		item, err := parseYAMLItem(itemNode)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		table.Items = append(table.Items, item)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func parseYAMLItem(node *yaml.Node) (Item, error) {
	if node.Kind != yaml.MappingNode {
		return Item{}, fmt.Errorf("item is not a mapping: %w", ErrInvalidTable)
	}

	item := Item{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "id":
			text, err := scalarText(value)
			if err != nil {
				return Item{}, err
			}
			item.ID = text
		case "options":
			if value.Kind != yaml.SequenceNode {
				return Item{}, fmt.Errorf("options must be a list: %w", ErrInvalidTable)
			}
			for _, opt := range value.Content {
				text, err := scalarText(opt)
				if err != nil {
					return Item{}, err
				}
				item.Options = append(item.Options, text)
			}
		case "answer":
			if value.Kind == yaml.SequenceNode {
				return Item{}, fmt.Errorf("answer lists %d values: %w", len(value.Content), ErrMultipleAnswers)
			}
			if value.Tag == "!!null" {
				continue
			}
			text, err := scalarText(value)
			if err != nil {
				return Item{}, err
			}
			item.Answer = text
			item.HasAnswer = true
		case "answers":
			return Item{}, fmt.Errorf("key %q: %w", key, ErrMultipleAnswers)
		default:
			return Item{}, fmt.Errorf("unrecognized key %q: %w", key, ErrInvalidTable)
		}
	}
	return item, nil
}

// scalarText returns the plain-text value of a scalar node. Non-string
// scalars are coerced and checked against the source text so a lossy
// coercion (1.10 → "1.1") surfaces as ErrDataIntegrity instead of a
// silently altered label.
func scalarText(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("expected a scalar value: %w", ErrInvalidTable)
	}
	if node.Tag == "!!str" {
		return node.Value, nil
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrInvalidTable)
	}
	coerced := fmt.Sprint(v)
	if coerced != node.Value {
		return "", fmt.Errorf("%q coerced to %q: %w", node.Value, coerced, ErrDataIntegrity)
	}
	return coerced, nil
}
