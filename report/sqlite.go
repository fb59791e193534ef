package report

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mlkit-go/seqtrain/pkg/errors"
	"github.com/mlkit-go/seqtrain/train"
)

// SQLiteReporter appends per-epoch metrics to a SQLite table so runs can be
// compared after the fact with plain SQL.
type SQLiteReporter struct {
	db  *sql.DB
	run string
}

const metricsSchema = `
	CREATE TABLE IF NOT EXISTS epoch_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run TEXT NOT NULL,
		epoch INTEGER NOT NULL,
		series TEXT NOT NULL,
		value REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_epoch_metrics_run_series
		ON epoch_metrics(run, series, epoch);
`

// NewSQLiteReporter opens (or creates) the database at path and ensures the
// metrics table exists. run names this training run in the table.
func NewSQLiteReporter(path, run string) (*SQLiteReporter, error) {
	if run == "" {
		run = "seqtrain"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open metrics database")
	}
	if _, err := db.Exec(metricsSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create metrics table")
	}

	return &SQLiteReporter{db: db, run: run}, nil
}

// Log inserts one observation.
func (r *SQLiteReporter) Log(epoch int, series string, value float64) error {
	_, err := r.db.Exec(
		`INSERT INTO epoch_metrics (run, epoch, series, value) VALUES (?, ?, ?, ?)`,
		r.run, epoch, series, value,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert metric")
	}
	return nil
}

// History returns the recorded values of a series in epoch order.
func (r *SQLiteReporter) History(series string) ([]float64, error) {
	rows, err := r.db.Query(
		`SELECT value FROM epoch_metrics WHERE run = ? AND series = ? ORDER BY epoch`,
		r.run, series,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query metrics")
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "failed to scan metric")
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Close closes the database.
func (r *SQLiteReporter) Close() error {
	return r.db.Close()
}

var _ train.Reporter = (*SQLiteReporter)(nil)
