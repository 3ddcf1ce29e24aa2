// Package store provides SQLite-backed persistence for mission results.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fentz26/missionlog/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store provides access to the missionlog SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mission_results (
		id TEXT PRIMARY KEY,
		client_id TEXT,
		mission_id TEXT,
		mission_title TEXT,
		mission_type TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		target_value REAL NOT NULL DEFAULT 0,
		target_unit TEXT,
		points_earned INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		completed_date DATETIME,
		category TEXT NOT NULL,
		icon TEXT,
		notes TEXT,
		performance TEXT
	);

	CREATE TABLE IF NOT EXISTS imports (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		inputs_hash TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		imported_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_mission_results_client_id ON mission_results(client_id);
	CREATE INDEX IF NOT EXISTS idx_imports_inputs_hash ON imports(inputs_hash);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Mission Result Operations ---

const resultColumns = `id, client_id, mission_id, mission_title, mission_type, difficulty,
	target_value, target_unit, points_earned, status, progress,
	start_date, end_date, completed_date, category, icon, notes, performance`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Tx is a write transaction opened by WithTx.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Tx{tx: sqlTx}); err != nil {
		sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// UpsertResult inserts or replaces a mission result within the transaction.
func (t *Tx) UpsertResult(ctx context.Context, r models.MissionResult) (*models.MissionResult, error) {
	return upsertResult(ctx, t.tx, r)
}

// WriteImport records an import batch within the transaction.
func (t *Tx) WriteImport(ctx context.Context, source, inputsHash string, count int) (*ImportRecord, error) {
	return writeImport(ctx, t.tx, source, inputsHash, count)
}

// UpsertResult inserts or replaces a mission result. A result without an ID
// is assigned one. The stored result is returned.
func (s *Store) UpsertResult(ctx context.Context, r models.MissionResult) (*models.MissionResult, error) {
	return upsertResult(ctx, s.db, r)
}

func upsertResult(ctx context.Context, db execer, r models.MissionResult) (*models.MissionResult, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validate result: %w", err)
	}

	var perf sql.NullString
	if r.Performance != nil {
		data, err := json.Marshal(r.Performance)
		if err != nil {
			return nil, fmt.Errorf("encode performance: %w", err)
		}
		perf = sql.NullString{String: string(data), Valid: true}
	}

	var completed sql.NullTime
	if r.CompletedDate != nil {
		completed = sql.NullTime{Time: r.CompletedDate.UTC(), Valid: true}
	}

	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO mission_results (`+resultColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, nullString(r.ClientID), nullString(r.MissionID), r.MissionTitle, r.MissionType, r.Difficulty,
		r.TargetValue, r.TargetUnit, r.PointsEarned, r.Status, r.Progress,
		r.StartDate.UTC(), r.EndDate.UTC(), completed, r.Category, r.Icon, r.Notes, perf,
	)
	if err != nil {
		return nil, fmt.Errorf("insert result: %w", err)
	}
	return &r, nil
}

// GetResult retrieves a mission result by ID. It returns ErrNotFound when
// no such result exists.
func (s *Store) GetResult(ctx context.Context, id string) (*models.MissionResult, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM mission_results WHERE id = ?`, id)
	r, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query result: %w", err)
	}
	return r, nil
}

// FetchResults returns every mission result, most recent start first. A
// non-empty ownerID restricts the results to that client.
func (s *Store) FetchResults(ctx context.Context, ownerID string) ([]models.MissionResult, error) {
	query := `SELECT ` + resultColumns + ` FROM mission_results`
	var args []interface{}

	if ownerID != "" {
		query += ` WHERE client_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY start_date DESC, rowid ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []models.MissionResult{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

// DeleteResult removes a mission result.
func (s *Store) DeleteResult(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM mission_results WHERE id = ?`, id)
	return err
}

// CountResults returns the number of stored mission results.
func (s *Store) CountResults(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mission_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanResult(sc scanner) (*models.MissionResult, error) {
	var r models.MissionResult
	var clientID, missionID, title, unit, icon, notes, perf sql.NullString
	var completed sql.NullTime

	err := sc.Scan(
		&r.ID, &clientID, &missionID, &title, &r.MissionType, &r.Difficulty,
		&r.TargetValue, &unit, &r.PointsEarned, &r.Status, &r.Progress,
		&r.StartDate, &r.EndDate, &completed, &r.Category, &icon, &notes, &perf,
	)
	if err != nil {
		return nil, err
	}

	r.ClientID = clientID.String
	r.MissionID = missionID.String
	r.MissionTitle = title.String
	r.TargetUnit = unit.String
	r.Icon = icon.String
	r.Notes = notes.String
	if completed.Valid {
		t := completed.Time
		r.CompletedDate = &t
	}
	if perf.Valid {
		p, err := models.DecodePerformanceJSON(r.MissionType, []byte(perf.String))
		if err != nil {
			return nil, fmt.Errorf("decode performance for %s: %w", r.ID, err)
		}
		r.Performance = p
	}
	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// --- Import Operations ---

// ImportRecord is one entry of the import ledger.
type ImportRecord struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	InputsHash  string    `json:"inputs_hash"`
	RecordCount int       `json:"record_count"`
	ImportedAt  time.Time `json:"imported_at"`
}

// WriteImport records a completed import batch.
func (s *Store) WriteImport(ctx context.Context, source, inputsHash string, count int) (*ImportRecord, error) {
	return writeImport(ctx, s.db, source, inputsHash, count)
}

func writeImport(ctx context.Context, db execer, source, inputsHash string, count int) (*ImportRecord, error) {
	rec := &ImportRecord{
		ID:          uuid.New().String(),
		Source:      source,
		InputsHash:  inputsHash,
		RecordCount: count,
		ImportedAt:  time.Now().UTC(),
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO imports (id, source, inputs_hash, record_count, imported_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Source, rec.InputsHash, rec.RecordCount, rec.ImportedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert import: %w", err)
	}
	return rec, nil
}

// FindImport returns the most recent import with the given hash, or
// ErrNotFound.
func (s *Store) FindImport(ctx context.Context, inputsHash string) (*ImportRecord, error) {
	rec := &ImportRecord{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, inputs_hash, record_count, imported_at FROM imports WHERE inputs_hash = ? ORDER BY imported_at DESC LIMIT 1`,
		inputsHash,
	).Scan(&rec.ID, &rec.Source, &rec.InputsHash, &rec.RecordCount, &rec.ImportedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query import: %w", err)
	}
	return rec, nil
}

// ListImports returns the import ledger, newest first.
func (s *Store) ListImports(ctx context.Context) ([]ImportRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, inputs_hash, record_count, imported_at FROM imports ORDER BY imported_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var recs []ImportRecord
	for rows.Next() {
		var rec ImportRecord
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.InputsHash, &rec.RecordCount, &rec.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
