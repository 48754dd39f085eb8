package repository

import (
	"context"

	"github.com/legal-portal-api/internal/database"
	"github.com/legal-portal-api/internal/models"
)

// activityLogRepo is the concrete implementation of ActivityLogRepository
type activityLogRepo struct {
	db *database.DB
}

// NewActivityLogRepo creates a new activity log repository
func NewActivityLogRepo(db *database.DB) ActivityLogRepository {
	return &activityLogRepo{db: db}
}

// Create appends an audit entry
func (r *activityLogRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_logs (id, user_id, action, model_type, model_id, old_values, new_values, ip_address, user_agent, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID, entry.UserID, entry.Action, entry.ModelType, entry.ModelID,
		nullableJSON(entry.OldValues), nullableJSON(entry.NewValues),
		entry.IPAddress, entry.UserAgent, entry.Description, entry.CreatedAt,
	)
	return err
}

// ListRecent returns the newest audit entries
func (r *activityLogRepo) ListRecent(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error) {
	return r.query(ctx, `
		SELECT id, user_id, action, model_type, model_id, old_values, new_values, ip_address, user_agent, description, created_at
		FROM activity_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByUser returns a user's audit entries, newest first
func (r *activityLogRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ActivityLog, error) {
	return r.query(ctx, `
		SELECT id, user_id, action, model_type, model_id, old_values, new_values, ip_address, user_agent, description, created_at
		FROM activity_logs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
}

func (r *activityLogRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.ActivityLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ActivityLog
	for rows.Next() {
		var entry models.ActivityLog
		var oldValues, newValues []byte
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Action, &entry.ModelType, &entry.ModelID,
			&oldValues, &newValues, &entry.IPAddress, &entry.UserAgent,
			&entry.Description, &entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entry.OldValues = oldValues
		entry.NewValues = newValues
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
