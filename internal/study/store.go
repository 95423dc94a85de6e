// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package study

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/irt-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "results.db"
)

// Store persists study summaries in a SQLite database.
type Store struct {
	db         *sql.DB
	resultsDir string
	maxResults int
}

// NewStore opens or creates the results database at
// resultsDir/index/results.db, creating the schema if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.ResultsDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		resultsDir: cfg.ResultsDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS studies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bank TEXT,
			replications INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			theta TEXT NOT NULL,
			max_deviation REAL NOT NULL,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS frequencies (
			study_id INTEGER NOT NULL REFERENCES studies(id),
			theta_row INTEGER NOT NULL,
			item INTEGER NOT NULL,
			category INTEGER NOT NULL,
			count INTEGER NOT NULL,
			observed REAL NOT NULL,
			expected REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_frequencies_study_id ON frequencies(study_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save inserts a study and its frequency cells in one transaction and
// returns the assigned study ID.
func (s *Store) Save(ctx context.Context, summary *types.StudySummary) (int64, error) {
	thetaJSON, err := json.Marshal(summary.Theta)
	if err != nil {
		return 0, fmt.Errorf("marshaling theta: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO studies (bank, replications, seed, theta, max_deviation, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		summary.Bank, summary.Replications, summary.Seed, string(thetaJSON),
		summary.MaxDeviation, summary.StartedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("inserting study: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading study id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO frequencies (study_id, theta_row, item, category, count, observed, expected)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing frequency insert: %w", err)
	}
	defer stmt.Close()

	for _, cell := range summary.Frequencies {
		if _, err := stmt.ExecContext(ctx,
			id, cell.ThetaRow, cell.Item, cell.Category, cell.Count, cell.Observed, cell.Expected); err != nil {
			return 0, fmt.Errorf("inserting frequency cell: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing study: %w", err)
	}

	summary.ID = id
	return id, nil
}

// List returns stored study summaries without their frequency cells,
// newest first, limited by the store's max results.
func (s *Store) List(ctx context.Context) ([]types.StudySummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, bank, replications, seed, theta, max_deviation, started_at
		 FROM studies ORDER BY id DESC LIMIT ?`, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("listing studies: %w", err)
	}
	defer rows.Close()

	var summaries []types.StudySummary
	for rows.Next() {
		summary, err := scanStudy(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, rows.Err()
}

// Get returns one stored study with its frequency cells.
func (s *Store) Get(ctx context.Context, id int64) (*types.StudySummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, bank, replications, seed, theta, max_deviation, started_at
		 FROM studies WHERE id = ?`, id)
	summary, err := scanStudy(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("study %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT theta_row, item, category, count, observed, expected
		 FROM frequencies WHERE study_id = ?
		 ORDER BY theta_row, item, category`, id)
	if err != nil {
		return nil, fmt.Errorf("reading frequency cells: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cell types.CellFrequency
		if err := rows.Scan(&cell.ThetaRow, &cell.Item, &cell.Category,
			&cell.Count, &cell.Observed, &cell.Expected); err != nil {
			return nil, fmt.Errorf("scanning frequency cell: %w", err)
		}
		summary.Frequencies = append(summary.Frequencies, cell)
	}
	return summary, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudy(row rowScanner) (*types.StudySummary, error) {
	var (
		summary   types.StudySummary
		thetaJSON string
		startedAt string
	)
	if err := row.Scan(&summary.ID, &summary.Bank, &summary.Replications,
		&summary.Seed, &thetaJSON, &summary.MaxDeviation, &startedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning study: %w", err)
	}
	if err := json.Unmarshal([]byte(thetaJSON), &summary.Theta); err != nil {
		return nil, fmt.Errorf("unmarshaling theta: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	summary.StartedAt = t
	return &summary, nil
}
