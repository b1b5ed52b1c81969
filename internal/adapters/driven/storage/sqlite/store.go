package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/comani/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
)

// FileName is the database file created inside the data directory.
const FileName = "comani.db"

// Store is a SQLite-based storage that provides access to the result
// store interface through a wrapper type.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: empty data directory", domain.ErrInvalidConfig)
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, FileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ResultStore returns a ResultStore interface backed by this store.
// Closing the returned store closes the database.
func (s *Store) ResultStore() driven.ResultStore {
	return &resultStore{store: s}
}

// migrate applies every embedded migration newer than the recorded version.
func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	up, err := migrations.Up()
	if err != nil {
		return err
	}
	for _, m := range up {
		if m.Version <= current {
			continue
		}
		if _, err := s.db.Exec(m.SQL); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.Name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("recording migration %s: %w", m.Name, err)
		}
	}
	return nil
}

// ==================== Result Store ====================

// resultStore implements driven.ResultStore.
type resultStore struct {
	store *Store
}

var _ driven.ResultStore = (*resultStore)(nil)

// Save stores or replaces the result of a commit within a run.
func (r *resultStore) Save(ctx context.Context, result domain.AnalysisResult) error {
	analysedAt := result.AnalysedAt
	if analysedAt.IsZero() {
		analysedAt = time.Now()
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO analysis_results
			(run_id, commit_id, commit_date, artifacts, lines_added, lines_removed, analysed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, commit_id) DO UPDATE SET
			commit_date = excluded.commit_date,
			artifacts = excluded.artifacts,
			lines_added = excluded.lines_added,
			lines_removed = excluded.lines_removed,
			analysed_at = excluded.analysed_at
	`,
		result.RunID,
		result.CommitID,
		result.CommitDate,
		result.Artifacts,
		result.LinesAdded,
		result.LinesRemoved,
		analysedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving result for commit %s: %w", result.CommitID, err)
	}
	return nil
}

// List returns all results of a run ordered by commit id.
func (r *resultStore) List(ctx context.Context, runID string) ([]domain.AnalysisResult, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT run_id, commit_id, commit_date, artifacts, lines_added, lines_removed, analysed_at
		FROM analysis_results
		WHERE run_id = ?
		ORDER BY commit_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []domain.AnalysisResult
	for rows.Next() {
		var (
			result     domain.AnalysisResult
			analysedAt int64
		)
		if err := rows.Scan(
			&result.RunID,
			&result.CommitID,
			&result.CommitDate,
			&result.Artifacts,
			&result.LinesAdded,
			&result.LinesRemoved,
			&analysedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		result.AnalysedAt = time.Unix(0, analysedAt)
		results = append(results, result)
	}

	return results, rows.Err()
}

// Close closes the underlying database.
func (r *resultStore) Close() error {
	return r.store.Close()
}
