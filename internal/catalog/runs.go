package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const runColumns = "id, dataset, policy, item_limit, status, error_message, stats_json, started_at, finished_at"

// StartRun inserts a running intake run.
func (s *Store) StartRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO intake_runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		nullableString(run.Dataset),
		run.Policy,
		run.Limit,
		string(RunRunning),
		nil,
		nil,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		nil,
	)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	return nil
}

// FinishRun records the terminal status, counters and error of a run.
func (s *Store) FinishRun(ctx context.Context, id string, status RunStatus, statsJSON, errMessage string) error {
	finished := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE intake_runs SET status = ?, stats_json = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		string(status),
		nullableString(statsJSON),
		nullableString(errMessage),
		nullableTime(&finished),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run: unknown run %s", id)
	}
	return nil
}

// GetRun returns the run with id, or nil when none exists.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM intake_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM intake_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id          string
		dataset     sql.NullString
		policy      string
		limit       int
		status      string
		errMessage  sql.NullString
		statsJSON   sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(&id, &dataset, &policy, &limit, &status, &errMessage, &statsJSON, &startedRaw, &finishedRaw); err != nil {
		return nil, err
	}
	run := &Run{
		ID:           id,
		Dataset:      dataset.String,
		Policy:       policy,
		Limit:        limit,
		Status:       RunStatus(status),
		ErrorMessage: errMessage.String,
		StatsJSON:    statsJSON.String,
	}
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return run, nil
}
