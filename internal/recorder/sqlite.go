package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run records to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so a reporting process can read while a run is being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                     TEXT PRIMARY KEY,
			created_at             INTEGER NOT NULL,
			seed                   INTEGER NOT NULL,
			requested_trials       INTEGER NOT NULL,
			failed_trials          INTEGER NOT NULL,
			starting_salary        TEXT,
			hire_age               INTEGER,
			retirement_age         INTEGER,
			death_age              INTEGER,
			withdrawal_rate        TEXT,
			cola_mode              TEXT,
			employer_rate_basis    TEXT,
			accrual_rate_at_20     TEXT,
			depletion_probability  TEXT,
			dc_exceeds_db_probability TEXT,
			comparison_trials      INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS trial_outcomes (
			run_id                    TEXT NOT NULL,
			trial_id                  INTEGER NOT NULL,
			final_average_salary      TEXT,
			db_initial_monthly_income TEXT,
			db_average_monthly_income TEXT,
			dc_balance_at_retirement  TEXT,
			dc_initial_monthly_income TEXT,
			dc_average_monthly_income TEXT,
			dc_depleted               INTEGER NOT NULL,
			dc_depletion_age          INTEGER,
			PRIMARY KEY (run_id, trial_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run ON trial_outcomes(run_id)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// RecordRun writes the run row and every trial outcome in one transaction.
// Decimal values are stored as text to keep exact precision.
func (r *SQLiteRecorder) RecordRun(rec RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	agg := rec.Result.Aggregate
	career := rec.Config.Career
	sim := rec.Config.Simulation

	_, err = tx.Exec(`INSERT INTO runs (
			id, created_at, seed, requested_trials, failed_trials,
			starting_salary, hire_age, retirement_age, death_age,
			withdrawal_rate, cola_mode, employer_rate_basis, accrual_rate_at_20,
			depletion_probability, dc_exceeds_db_probability, comparison_trials
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.Unix(), rec.Result.Seed,
		rec.Result.RequestedTrials, rec.Result.FailedTrials,
		career.StartingSalary.String(), career.HireAge, career.RetirementAge, career.DeathAge,
		sim.WithdrawalRate.String(), string(sim.COLAMode), string(sim.EmployerRateBasis),
		sim.AccrualRateAt20.String(),
		agg.DepletionProbability.String(), agg.DCExceedsDBProbability.String(), agg.ComparisonTrials,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO trial_outcomes (
			run_id, trial_id, final_average_salary,
			db_initial_monthly_income, db_average_monthly_income,
			dc_balance_at_retirement, dc_initial_monthly_income,
			dc_average_monthly_income, dc_depleted, dc_depletion_age
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range rec.Result.Outcomes {
		var dbAvg, dcAvg any
		if o.DBAverageMonthlyIncome != nil {
			dbAvg = o.DBAverageMonthlyIncome.String()
		}
		if o.DCAverageMonthlyIncome != nil {
			dcAvg = o.DCAverageMonthlyIncome.String()
		}
		var depletionAge any
		if o.DCDepletionAge != nil {
			depletionAge = *o.DCDepletionAge
		}
		depleted := 0
		if o.DCDepleted {
			depleted = 1
		}
		if _, err := stmt.Exec(
			rec.ID, o.TrialID, o.FinalAverageSalary.String(),
			o.DBInitialMonthlyIncome.String(), dbAvg,
			o.DCBalanceAtRetirement.String(), o.DCInitialMonthlyIncome.String(),
			dcAvg, depleted, depletionAge,
		); err != nil {
			return fmt.Errorf("insert outcome %d: %w", o.TrialID, err)
		}
	}

	return tx.Commit()
}

// CountRuns returns the number of recorded runs.
func (r *SQLiteRecorder) CountRuns() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// CountOutcomes returns the number of trial outcome rows for a run.
func (r *SQLiteRecorder) CountOutcomes(runID string) (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM trial_outcomes WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count outcomes: %w", err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
