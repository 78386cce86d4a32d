// Package db is the optional Postgres inquiry log.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"drspecialist/pkg"
)

// Repository writes and aggregates the inquiry log.
type Repository struct {
	DB       *sql.DB
	Notifier *Notifier
}

// NewRepository constructs a Repository from an existing sql.DB.  notifier
// may be nil, in which case urgent inquiries are not broadcast.  The caller
// manages the DB lifecycle.
func NewRepository(db *sql.DB, notifier *Notifier) *Repository {
	return &Repository{DB: db, Notifier: notifier}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return conn, nil
}

// Record inserts one inquiry.  Urgent recommendations are also announced on
// the notify channel.
func (r *Repository) Record(ctx context.Context, in pkg.Inquiry) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO specialist_inquiries (id, outcome, specialist_name, category, urgent, latency_ms, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		in.ID, string(in.Outcome), in.SpecialistName, in.Category, in.Urgent, in.LatencyMS, in.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}

	if in.Urgent && r.Notifier != nil {
		payload, err := json.Marshal(UrgentNotice{
			InquiryID:      in.ID,
			SpecialistName: in.SpecialistName,
			Category:       in.Category,
			CreatedAt:      in.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("encode notice: %w", err)
		}
		if err := r.Notifier.Notify(ctx, string(payload)); err != nil {
			return fmt.Errorf("notify urgent inquiry: %w", err)
		}
	}
	return nil
}

// SpecialistStats returns successful recommendations grouped by specialist,
// most frequent first.
func (r *Repository) SpecialistStats(ctx context.Context, limit int) ([]pkg.SpecialistCount, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT specialist_name, category, COUNT(*) AS total,
                COUNT(*) FILTER (WHERE urgent) AS urgent
         FROM specialist_inquiries
         WHERE outcome = 'success'
         GROUP BY specialist_name, category
         ORDER BY total DESC, specialist_name ASC
         LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query specialist stats: %w", err)
	}
	defer rows.Close()

	out := []pkg.SpecialistCount{}
	for rows.Next() {
		var c pkg.SpecialistCount
		if err := rows.Scan(&c.SpecialistName, &c.Category, &c.Total, &c.Urgent); err != nil {
			return nil, fmt.Errorf("scan specialist stats: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
