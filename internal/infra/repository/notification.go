package repository

import (
	"context"
	"time"

	"tourbook/internal/infra/db"
)

type NotificationRepository struct {
	dbtx db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{dbtx: dbtx}
}

// CreateJob persists a domain event as a pending job inside the caller's
// transaction; the external notifier only ever sees committed state.
func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	const query = `
		INSERT INTO notification_jobs (kind, topic, payload, run_at, status)
		VALUES ($1, $2, $3, $4, 'pending')`

	_, err := r.dbtx.Exec(ctx, query, kind, topic, payload, runAt)
	if err != nil {
		return wrapPgError("failed to create notification job", err)
	}
	return nil
}
