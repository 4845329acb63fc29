package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minasamy417/resultsboard/domain"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset_id TEXT NOT NULL,
			identity_key TEXT NOT NULL,
			code TEXT,
			name TEXT NOT NULL,
			group_label TEXT NOT NULL,
			course TEXT NOT NULL,
			score REAL NOT NULL DEFAULT 0,
			absent INTEGER NOT NULL DEFAULT 0,
			attendance REAL NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_dataset ON records(dataset_id, id)`,
		`CREATE TABLE IF NOT EXISTS behavioral_notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset_id TEXT NOT NULL,
			identity_key TEXT NOT NULL,
			note TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_behavioral_dataset ON behavioral_notes(dataset_id, id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRecord inserts one record at the end of a dataset's sequence.
func (s *SQLiteStore) CreateRecord(ctx context.Context, datasetID string, record *domain.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (dataset_id, identity_key, code, name, group_label, course, score, absent, attendance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		datasetID, record.IdentityKey, record.Code, record.Name, record.Group,
		record.Course, record.Score, record.Absent, record.Attendance)
	return err
}

// GetRecords returns the full ordered record sequence for a dataset.
func (s *SQLiteStore) GetRecords(ctx context.Context, datasetID string) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identity_key, code, name, group_label, course, score, absent, attendance
		 FROM records WHERE dataset_id = ? ORDER BY id ASC`,
		datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var r domain.Record
		var code sql.NullString
		if err := rows.Scan(&r.IdentityKey, &code, &r.Name, &r.Group, &r.Course, &r.Score, &r.Absent, &r.Attendance); err != nil {
			return nil, err
		}
		if code.Valid {
			r.Code = code.String
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CreateBehavioralNote inserts one behavioral note for a dataset.
func (s *SQLiteStore) CreateBehavioralNote(ctx context.Context, datasetID string, note *domain.BehavioralNote) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO behavioral_notes (dataset_id, identity_key, note) VALUES (?, ?, ?)`,
		datasetID, note.IdentityKey, note.Note)
	return err
}

// GetBehavioralNotes returns the dataset's behavioral notes. Zero rows
// normalize to an absent BehavioralSet so downstream conditional logic
// has a single unambiguous check.
func (s *SQLiteStore) GetBehavioralNotes(ctx context.Context, datasetID string) (domain.BehavioralSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identity_key, note FROM behavioral_notes WHERE dataset_id = ? ORDER BY id ASC`,
		datasetID)
	if err != nil {
		return domain.BehavioralSet{}, err
	}
	defer rows.Close()

	var notes []domain.BehavioralNote
	for rows.Next() {
		var n domain.BehavioralNote
		if err := rows.Scan(&n.IdentityKey, &n.Note); err != nil {
			return domain.BehavioralSet{}, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return domain.BehavioralSet{}, err
	}

	return domain.BehavioralSet{Present: len(notes) > 0, Notes: notes}, nil
}
