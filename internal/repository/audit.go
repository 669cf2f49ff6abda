package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vaultpass/pwgen-go/internal/model"
)

// AuditRepository persists generation events.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record inserts a generation event and sets the generated ID on it.
func (r *AuditRepository) Record(ctx context.Context, event *model.GenerationEvent) error {
	query := `INSERT INTO generation_events (client, length, classes, avoid_ambiguous, entropy_tier)
		VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		event.Client,
		event.Length,
		event.Classes,
		event.AvoidAmbiguous,
		event.EntropyTier,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	event.ID = id
	return nil
}

// CountByTier returns the number of events per entropy tier created at or after since.
func (r *AuditRepository) CountByTier(ctx context.Context, since time.Time) (map[string]int64, error) {
	query := `SELECT entropy_tier, COUNT(*) FROM generation_events
		WHERE created_at >= ? GROUP BY entropy_tier`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var tier string
		var n int64
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, err
		}
		counts[tier] = n
	}

	return counts, rows.Err()
}
