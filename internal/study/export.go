// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package study

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes a stored study to results/index/study-<id>.yaml and
// returns the path.
func (s *Store) ExportYAML(ctx context.Context, id int64) (string, error) {
	summary, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.resultsDir, indexDir, fmt.Sprintf("study-%d.yaml", id))
	data, err := yaml.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// ExportJSON writes a stored study to results/index/study-<id>.json and
// returns the path.
func (s *Store) ExportJSON(ctx context.Context, id int64) (string, error) {
	summary, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.resultsDir, indexDir, fmt.Sprintf("study-%d.json", id))
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
