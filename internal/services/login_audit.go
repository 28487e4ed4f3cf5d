package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresLoginAudit appends every login to the login_events table.
type PostgresLoginAudit struct {
	db *sql.DB
}

func NewPostgresLoginAudit(db *sql.DB) *PostgresLoginAudit {
	return &PostgresLoginAudit{db: db}
}

func (a *PostgresLoginAudit) RecordLogin(ctx context.Context, uid string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO login_events (user_id, login_time) VALUES ($1, $2)`, uid, at)
	if err != nil {
		return fmt.Errorf("failed to insert login event: %w", err)
	}
	return nil
}

// RecentLogins returns the newest login times for a user, newest first.
func (a *PostgresLoginAudit) RecentLogins(ctx context.Context, uid string, limit int) ([]time.Time, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := a.db.QueryContext(ctx, `
		SELECT login_time FROM login_events
		WHERE user_id = $1
		ORDER BY login_time DESC
		LIMIT $2
	`, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []time.Time{}
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
