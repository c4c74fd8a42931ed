// Package db keeps the job history in a PostgreSQL table.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"huffpress/internal/api/compressdto"

	_ "github.com/lib/pq"
)

// initDDL creates the job history table.
const initDDL = `
CREATE TABLE IF NOT EXISTS jobs (
    id                  BIGSERIAL PRIMARY KEY,
    operation           TEXT NOT NULL,
    filename            TEXT NOT NULL,
    result_filename     TEXT NOT NULL,
    path                TEXT NOT NULL,
    format              TEXT NOT NULL,
    original_size       BIGINT NOT NULL,
    result_size         BIGINT NOT NULL,
    percentage          INTEGER NOT NULL,
    achieved_percentage DOUBLE PRECISION NOT NULL,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const insertJob = `
INSERT INTO jobs (operation, filename, result_filename, path, format,
                  original_size, result_size, percentage, achieved_percentage)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at;
`

const selectRecent = `
SELECT id, operation, filename, result_filename, path, format,
       original_size, result_size, percentage, achieved_percentage, created_at
FROM jobs
ORDER BY id DESC
LIMIT $1;
`

// defaultLimit bounds RecentJobs when the caller asks for everything.
const defaultLimit = 1000

// DBStorage is the job history backed by a SQL database.
type DBStorage struct {
	*sql.DB
}

// CreateConnection opens the database, checks it is reachable and applies
// the schema inside a transaction.
func CreateConnection(ctx context.Context, dbType, connectionString string) (_ *DBStorage, err error) {
	db, err := sql.Open(dbType, connectionString)
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, db.Close())
		}
	}()

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin migration: %w", err)
	}
	if _, err = tx.ExecContext(ctx, initDDL); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return nil, fmt.Errorf("apply migrations: %w (rollback failed: %v)", err, rbErr)
		}
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit migrations: %w", err)
	}

	return &DBStorage{db}, nil
}

// Ping checks the connection to the database.
func (db *DBStorage) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

// RecordJob inserts job and returns it with the ID and timestamp assigned
// by the database.
func (db *DBStorage) RecordJob(ctx context.Context, job compressdto.Job) (compressdto.Job, error) {
	row := db.QueryRowContext(ctx, insertJob,
		job.Operation, job.Filename, job.ResultFilename, job.Path, job.Format,
		job.OriginalSize, job.ResultSize, job.Percentage, job.AchievedPercentage,
	)
	if err := row.Scan(&job.ID, &job.CreatedAt); err != nil {
		return job, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

// RecentJobs returns up to limit jobs, newest first.
func (db *DBStorage) RecentJobs(ctx context.Context, limit int) ([]compressdto.Job, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := db.QueryContext(ctx, selectRecent, limit)
	if err != nil {
		return nil, fmt.Errorf("select jobs: %w", err)
	}
	// Always close rows to release the connection.
	defer rows.Close()

	jobs := make([]compressdto.Job, 0)
	for rows.Next() {
		var j compressdto.Job
		if err := rows.Scan(&j.ID, &j.Operation, &j.Filename, &j.ResultFilename, &j.Path, &j.Format,
			&j.OriginalSize, &j.ResultSize, &j.Percentage, &j.AchievedPercentage, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}
