// Package archive persists experiment outcomes to SQLite, next to the
// pydict results file. The archive accumulates across runs: every run gets
// its own identifier, so repeated experiments on the same database remain
// distinguishable.
package archive

import (
	"database/sql"
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
	"github.com/XiaoConstantine/cocobench/pkg/solvers"
)

// Archive implements bench.RestartRecorder on a SQLite database.
type Archive struct {
	db    *sql.DB
	path  string
	runID string

	initialized sync.Once
}

// New opens (or creates) the archive database at path. ":memory:" creates
// an in-memory database.
func New(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.IOFailed, "failed to open archive database"),
			errors.Fields{"path": path},
		)
	}

	a := &Archive{
		db:    db,
		path:  path,
		runID: uuid.NewString(),
	}
	if err := a.ensureInitialized(); err != nil {
		return nil, err
	}
	return a, nil
}

// RunID identifies this run's rows in the archive.
func (a *Archive) RunID() string { return a.runID }

func (a *Archive) ensureInitialized() error {
	var initErr error
	a.initialized.Do(func() {
		// WAL keeps the single writer from blocking concurrent readers
		if _, err := a.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			initErr = errors.Wrap(err, errors.IOFailed, "failed to enable WAL mode")
			return
		}

		query := `
        CREATE TABLE IF NOT EXISTS stopping_conditions (
            run_id TEXT NOT NULL,
            problem_id TEXT NOT NULL,
            problem_index INTEGER NOT NULL,
            restart INTEGER NOT NULL,
            conditions TEXT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_stopping_conditions_run
        ON stopping_conditions(run_id, problem_index);

        CREATE TABLE IF NOT EXISTS timings (
            run_id TEXT NOT NULL,
            problem_id TEXT NOT NULL,
            dimension INTEGER NOT NULL,
            seconds_per_evaluation REAL NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_timings_run
        ON timings(run_id, dimension);
        `

		if _, err := a.db.Exec(query); err != nil {
			initErr = errors.Wrap(err, errors.IOFailed, "failed to initialize archive schema")
			return
		}
	})
	return initErr
}

// RecordRestart stores one restart's termination conditions as JSON.
func (a *Archive) RecordRestart(problemID string, problemIndex, restart int, conditions solvers.StopSet) error {
	payload, err := json.Marshal(conditions)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "failed to encode stop conditions"),
			errors.Fields{"problem": problemID, "restart": restart},
		)
	}

	_, err = a.db.Exec(
		`INSERT INTO stopping_conditions (run_id, problem_id, problem_index, restart, conditions)
         VALUES (?, ?, ?, ?, ?)`,
		a.runID, problemID, problemIndex, restart, string(payload))
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.IOFailed, "failed to archive restart"),
			errors.Fields{"problem": problemID, "restart": restart},
		)
	}
	return nil
}

// RecordTiming stores one problem's seconds-per-evaluation sample.
func (a *Archive) RecordTiming(problemID string, dimension int, secondsPerEval float64) error {
	_, err := a.db.Exec(
		`INSERT INTO timings (run_id, problem_id, dimension, seconds_per_evaluation)
         VALUES (?, ?, ?, ?)`,
		a.runID, problemID, dimension, secondsPerEval)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.IOFailed, "failed to archive timing"),
			errors.Fields{"problem": problemID},
		)
	}
	return nil
}

// RestartConditions reads back the ordered stop conditions of one problem
// in this run.
func (a *Archive) RestartConditions(problemIndex int) ([]solvers.StopSet, error) {
	rows, err := a.db.Query(
		`SELECT conditions FROM stopping_conditions
         WHERE run_id = ? AND problem_index = ? ORDER BY restart`,
		a.runID, problemIndex)
	if err != nil {
		return nil, errors.Wrap(err, errors.IOFailed, "failed to query archive")
	}
	defer rows.Close()

	var out []solvers.StopSet
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, errors.IOFailed, "failed to scan archive row")
		}
		set := solvers.StopSet{}
		if err := json.Unmarshal([]byte(payload), &set); err != nil {
			return nil, errors.Wrap(err, errors.ParseFailed, "corrupt archive payload")
		}
		out = append(out, set)
	}
	return out, rows.Err()
}

// TimingMedians aggregates the run's timing samples per dimension.
func (a *Archive) TimingMedians() (map[int]float64, error) {
	rows, err := a.db.Query(
		`SELECT dimension, seconds_per_evaluation FROM timings WHERE run_id = ?`,
		a.runID)
	if err != nil {
		return nil, errors.Wrap(err, errors.IOFailed, "failed to query timings")
	}
	defer rows.Close()

	samples := map[int][]float64{}
	for rows.Next() {
		var dim int
		var spe float64
		if err := rows.Scan(&dim, &spe); err != nil {
			return nil, errors.Wrap(err, errors.IOFailed, "failed to scan timing row")
		}
		samples[dim] = append(samples[dim], spe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	medians := make(map[int]float64, len(samples))
	for dim, vals := range samples {
		medians[dim] = median(vals)
	}
	return medians, nil
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Close flushes and closes the database.
func (a *Archive) Close() error {
	if err := a.db.Close(); err != nil {
		return errors.Wrap(err, errors.IOFailed, "failed to close archive")
	}
	return nil
}
