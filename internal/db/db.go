// Package db provides PostgreSQL persistence for analysis runs: the listings
// that fed a run, the merge tree it produced and the flat cluster assignments.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/skillmap/internal/types"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// CreateRun creates a new run record and returns its ID.
func (db *DB) CreateRun(ctx context.Context, linkage, policy string, listings, vocabulary int) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO analysis_runs (linkage, policy, listings, vocabulary, status)
		 VALUES ($1, $2, $3, $4, 'running')
		 RETURNING id`,
		linkage, policy, listings, vocabulary,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run as completed or failed.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE analysis_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveListings stores the listings that fed a run.
func (db *DB) SaveListings(ctx context.Context, runID uuid.UUID, listings []types.Listing) error {
	batch := &pgx.Batch{}
	for _, listing := range listings {
		batch.Queue(
			`INSERT INTO run_listings (run_id, listing_id, text, tokens)
			 VALUES ($1, $2, $3, $4)`,
			runID, listing.ID, listing.Text, listing.Tokens,
		)
	}
	if err := db.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save listings: %w", err)
	}
	return nil
}

// SaveMergeEvents stores a run's merge tree.
func (db *DB) SaveMergeEvents(ctx context.Context, runID uuid.UUID, merges []types.MergeEvent) error {
	batch := &pgx.Batch{}
	for _, m := range merges {
		batch.Queue(
			`INSERT INTO merge_events (run_id, step, left_id, right_id, distance, size)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			runID, m.Step, m.LeftID, m.RightID, m.Distance, m.Size,
		)
	}
	if err := db.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save merge events: %w", err)
	}
	return nil
}

// SaveAssignments stores a run's flat cluster assignments.
func (db *DB) SaveAssignments(ctx context.Context, runID uuid.UUID, assignments *types.Assignments) error {
	batch := &pgx.Batch{}
	for _, m := range assignments.Members {
		batch.Queue(
			`INSERT INTO cluster_assignments (run_id, token, cluster)
			 VALUES ($1, $2, $3)`,
			runID, m.Token, m.Cluster,
		)
	}
	if err := db.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save assignments: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID. Returns nil when the run does not exist.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, linkage, policy, listings, vocabulary, status, created_at, completed_at
		 FROM analysis_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Linkage, &run.Policy, &run.Listings, &run.Vocabulary, &run.Status, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent runs, newest first.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, linkage, policy, listings, vocabulary, status, created_at, completed_at
		 FROM analysis_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Linkage, &run.Policy, &run.Listings, &run.Vocabulary, &run.Status, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// GetMergeEvents retrieves a run's merge tree in step order.
func (db *DB) GetMergeEvents(ctx context.Context, runID uuid.UUID) ([]types.MergeEvent, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT step, left_id, right_id, distance, size
		 FROM merge_events WHERE run_id = $1 ORDER BY step ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get merge events: %w", err)
	}
	defer rows.Close()

	var merges []types.MergeEvent
	for rows.Next() {
		var m types.MergeEvent
		if err := rows.Scan(&m.Step, &m.LeftID, &m.RightID, &m.Distance, &m.Size); err != nil {
			return nil, fmt.Errorf("failed to scan merge event: %w", err)
		}
		merges = append(merges, m)
	}
	return merges, nil
}

// GetAssignments retrieves a run's cluster assignments ordered by token.
func (db *DB) GetAssignments(ctx context.Context, runID uuid.UUID) ([]types.Assignment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT token, cluster
		 FROM cluster_assignments WHERE run_id = $1 ORDER BY token ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	defer rows.Close()

	var assignments []types.Assignment
	for rows.Next() {
		var a types.Assignment
		if err := rows.Scan(&a.Token, &a.Cluster); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

// DeleteRun deletes a run and its dependent rows via cascade.
func (db *DB) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM analysis_runs WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}
