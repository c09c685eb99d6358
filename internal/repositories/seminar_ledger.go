package repositories

import (
	"context"
	"errors"

	"seminar-reminder/internal/model"
)

var ErrNotFound = errors.New("record not found")

const StatusMessageKey = "status_message_id"

// SeminarLedger is the durable history of notified seminars.
type SeminarLedger interface {
	Exists(ctx context.Context, seminarID string) (bool, error)
	// RecordIfAbsent inserts the record unless one with the same seminar ID exists.
	// It reports whether a row was inserted.
	RecordIfAbsent(ctx context.Context, record model.NotificationRecord) (bool, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]model.NotificationRecord, error)

	GetState(ctx context.Context, key string) (string, error)
	SetState(ctx context.Context, key, value string) error
}
