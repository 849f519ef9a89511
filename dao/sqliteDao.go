package dao

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"termometro/models"
)

// SQLiteReportStore keeps reports in a local SQLite file.
type SQLiteReportStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteReportStore opens (or creates) the database at path and applies the schema.
func NewSQLiteReportStore(ctx context.Context, path string) (*SQLiteReportStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reportes (
			id TEXT PRIMARY KEY,
			ubicacion TEXT NOT NULL,
			temperatura TEXT NOT NULL,
			fecha TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reportes_recorded_at ON reportes(recorded_at);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}

	return &SQLiteReportStore{db: db, now: time.Now}, nil
}

// Save inserts one report row.
func (s *SQLiteReportStore) Save(ctx context.Context, rec models.ReportRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reportes (id, ubicacion, temperatura, fecha, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), rec.Ubicacion, string(rec.Temperatura), rec.Fecha,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		log.Printf("❌ Error saving report: %v", err)
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// LoadAll returns every stored report, oldest first.
func (s *SQLiteReportStore) LoadAll(ctx context.Context) ([]models.StoredReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ubicacion, temperatura, fecha, recorded_at FROM reportes ORDER BY recorded_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := make([]models.StoredReport, 0)
	for rows.Next() {
		var (
			rep  models.StoredReport
			temp string
			ts   string
		)
		if err := rows.Scan(&rep.ID, &rep.Ubicacion, &temp, &rep.Fecha, &ts); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		rep.Temperatura = models.Temperatura(temp)
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rep.RecordedAt = t
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

// DeleteAll removes every report.
func (s *SQLiteReportStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reportes`); err != nil {
		return fmt.Errorf("delete reports: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteReportStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
