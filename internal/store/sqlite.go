package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/weiwei-tsao/country-stats/apps/api/internal/business/countries"
	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
)

const reportsTable = `
CREATE TABLE IF NOT EXISTS stat_reports (
	id TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	query_key TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	report TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stat_reports_key_created ON stat_reports (query_key, created_at);
`

// SQLiteReportStore keeps report runs in a local SQLite file; the report body is stored as JSON.
type SQLiteReportStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the schema exists.
func OpenSQLite(path string) (*SQLiteReportStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(reportsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &SQLiteReportStore{db: db}, nil
}

func (s *SQLiteReportStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteReportStore) SaveReport(ctx context.Context, run model.ReportRun) error {
	if run.ID == "" {
		return fmt.Errorf("report id is required")
	}
	body, err := json.Marshal(run.Report)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", run.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO stat_reports (id, query, query_key, created_at, report) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Query, run.QueryKey, run.CreatedAt.UTC(), string(body))
	if err != nil {
		return fmt.Errorf("save report %s: %w", run.ID, err)
	}
	return nil
}

func (s *SQLiteReportStore) GetReport(ctx context.Context, id string) (model.ReportRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, query, query_key, created_at, report FROM stat_reports WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ReportRun{}, fmt.Errorf("get report %s: %w", id, countries.ErrReportNotFound)
	}
	if err != nil {
		return model.ReportRun{}, fmt.Errorf("get report %s: %w", id, err)
	}
	return run, nil
}

func (s *SQLiteReportStore) ListReports(ctx context.Context, queryKey string, limit int) ([]model.ReportRun, error) {
	query := `SELECT id, query, query_key, created_at, report FROM stat_reports`
	args := []interface{}{}
	if queryKey != "" {
		query += ` WHERE query_key = ?`
		args = append(args, queryKey)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var runs []model.ReportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (model.ReportRun, error) {
	var (
		run       model.ReportRun
		createdAt time.Time
		body      string
	)
	if err := sc.Scan(&run.ID, &run.Query, &run.QueryKey, &createdAt, &body); err != nil {
		return model.ReportRun{}, err
	}
	if err := json.Unmarshal([]byte(body), &run.Report); err != nil {
		return model.ReportRun{}, fmt.Errorf("decode report %s: %w", run.ID, err)
	}
	run.CreatedAt = createdAt.UTC()
	return run, nil
}
