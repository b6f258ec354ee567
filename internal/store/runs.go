// Package store persists completed LCOE computations.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dldx/renewables-lcoe-api/internal/finance"
)

// ErrRunNotFound is returned by Get for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

const defaultListLimit = 50

// Run is a stored LCOE computation.
type Run struct {
	ID          string              `json:"id"`
	CreatedAt   string              `json:"created_at"`
	LCOE        float64             `json:"lcoe"`
	EquityIRR   float64             `json:"equity_irr"`
	DebtPct     float64             `json:"debt_pct_of_capital_cost"`
	Assumptions finance.Assumptions `json:"assumptions"`
	Schedule    finance.Schedule    `json:"schedule"`
}

// Summary is the listing projection of a run.
type Summary struct {
	ID         string  `json:"id"`
	CreatedAt  string  `json:"created_at"`
	CapacityMW float64 `json:"capacity_mw"`
	LCOE       float64 `json:"lcoe"`
	EquityIRR  float64 `json:"equity_irr"`
}

// RunStore reads and writes the lcoe_runs table.
type RunStore struct {
	db *sql.DB
}

// NewRunStore wraps a database handle.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Save persists a computation result and returns its generated id.
func (s *RunStore) Save(result finance.Result) (string, error) {
	assumptionsJSON, err := json.Marshal(result.Assumptions)
	if err != nil {
		return "", fmt.Errorf("marshal assumptions: %w", err)
	}
	scheduleJSON, err := json.Marshal(result.Schedule)
	if err != nil {
		return "", fmt.Errorf("marshal schedule: %w", err)
	}

	var debtPct float64
	if result.Assumptions.DebtPct != nil {
		debtPct = *result.Assumptions.DebtPct
	}

	id := uuid.NewString()
	_, err = s.db.Exec(`
		INSERT INTO lcoe_runs (id, capacity_mw, lcoe, equity_irr, debt_pct, assumptions_json, schedule_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, result.Assumptions.CapacityMW, result.LCOE, result.EquityIRR, debtPct,
		string(assumptionsJSON), string(scheduleJSON))
	if err != nil {
		return "", fmt.Errorf("insert lcoe run: %w", err)
	}

	return id, nil
}

// List returns the most recent runs, newest first.
func (s *RunStore) List(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.Query(`
		SELECT id, created_at, capacity_mw, lcoe, equity_irr
		FROM lcoe_runs
		ORDER BY datetime(created_at) DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query lcoe runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var item Summary
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.CapacityMW, &item.LCOE, &item.EquityIRR); err != nil {
			return nil, fmt.Errorf("scan lcoe run: %w", err)
		}
		summaries = append(summaries, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lcoe runs: %w", err)
	}

	return summaries, nil
}

// Get loads one stored run in full, including its schedule.
func (s *RunStore) Get(id string) (Run, error) {
	var run Run
	var assumptionsJSON, scheduleJSON string
	err := s.db.QueryRow(`
		SELECT id, created_at, lcoe, equity_irr, debt_pct, assumptions_json, schedule_json
		FROM lcoe_runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.CreatedAt, &run.LCOE, &run.EquityIRR, &run.DebtPct, &assumptionsJSON, &scheduleJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("query lcoe run: %w", err)
	}

	if err := json.Unmarshal([]byte(assumptionsJSON), &run.Assumptions); err != nil {
		return Run{}, fmt.Errorf("unmarshal assumptions for run %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(scheduleJSON), &run.Schedule); err != nil {
		return Run{}, fmt.Errorf("unmarshal schedule for run %s: %w", id, err)
	}

	return run, nil
}
