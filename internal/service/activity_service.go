package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/repository"
)

// activityService is the concrete implementation of ActivityService
type activityService struct {
	activity repository.ActivityLogRepository
	log      zerolog.Logger
}

func newActivityService(activity repository.ActivityLogRepository, log zerolog.Logger) *activityService {
	return &activityService{
		activity: activity,
		log:      log.With().Str("service", "activity").Logger(),
	}
}

// Record appends an audit entry. Failures are logged and swallowed: the
// audit write must never abort the operation it describes once that
// operation has committed.
func (s *activityService) Record(ctx context.Context, userID *string, action, modelType, modelID string, oldValues, newValues interface{}, description string, meta RequestMeta) {
	entry := &models.ActivityLog{
		ID:          uuid.New().String(),
		UserID:      userID,
		Action:      action,
		ModelType:   modelType,
		ModelID:     modelID,
		OldValues:   marshalValues(oldValues),
		NewValues:   marshalValues(newValues),
		IPAddress:   meta.IP,
		UserAgent:   meta.UserAgent,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := s.activity.Create(ctx, entry); err != nil {
		s.log.Error().Err(err).
			Str("action", action).
			Str("model_type", modelType).
			Str("model_id", modelID).
			Msg("Failed to write activity log")
	}
}

// Recent returns the newest audit entries
func (s *activityService) Recent(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error) {
	return s.activity.ListRecent(ctx, limit, offset)
}

// ByUser returns a user's audit entries
func (s *activityService) ByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ActivityLog, error) {
	return s.activity.ListByUser(ctx, userID, limit, offset)
}

func marshalValues(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
