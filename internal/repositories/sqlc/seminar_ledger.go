package sqlc

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	db "seminar-reminder/internal/db/sqlc"
	appErr "seminar-reminder/internal/errors"
	"seminar-reminder/internal/model"
	"seminar-reminder/internal/repositories"
)

type SeminarLedger struct {
	queries *db.Queries
}

func NewSeminarLedger(queries *db.Queries) *SeminarLedger {
	return &SeminarLedger{queries: queries}
}

func (r *SeminarLedger) Exists(ctx context.Context, seminarID string) (bool, error) {
	exists, err := r.queries.NotifiedSeminarExists(ctx, seminarID)
	if err != nil {
		return false, appErr.NewPersistence("lookup %s: %w", seminarID, err)
	}
	return exists, nil
}

func (r *SeminarLedger) RecordIfAbsent(ctx context.Context, record model.NotificationRecord) (bool, error) {
	notifiedAt := record.NotifiedAt
	if notifiedAt.IsZero() {
		notifiedAt = time.Now()
	}

	_, err := r.queries.InsertNotifiedSeminar(ctx, db.InsertNotifiedSeminarParams{
		SeminarID:  record.SeminarID,
		SeminarUrl: record.SeminarURL,
		Title:      record.Title,
		NotifiedAt: pgtype.Timestamptz{Time: notifiedAt, Valid: true},
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, appErr.NewPersistence("record %s: %w", record.SeminarID, err)
	}
	return true, nil
}

func (r *SeminarLedger) Count(ctx context.Context) (int64, error) {
	count, err := r.queries.CountNotifiedSeminars(ctx)
	if err != nil {
		return 0, appErr.NewPersistence("count notified seminars: %w", err)
	}
	return count, nil
}

func (r *SeminarLedger) List(ctx context.Context) ([]model.NotificationRecord, error) {
	rows, err := r.queries.ListNotifiedSeminars(ctx)
	if err != nil {
		return nil, appErr.NewPersistence("list notified seminars: %w", err)
	}
	records := make([]model.NotificationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, mapRecord(row))
	}
	return records, nil
}

func (r *SeminarLedger) GetState(ctx context.Context, key string) (string, error) {
	value, err := r.queries.GetBotState(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repositories.ErrNotFound
	}
	if err != nil {
		return "", appErr.NewPersistence("get state %s: %w", key, err)
	}
	return value, nil
}

func (r *SeminarLedger) SetState(ctx context.Context, key, value string) error {
	if err := r.queries.SetBotState(ctx, db.SetBotStateParams{Key: key, Value: value}); err != nil {
		return appErr.NewPersistence("set state %s: %w", key, err)
	}
	return nil
}

func mapRecord(row db.NotifiedSeminar) model.NotificationRecord {
	var notifiedAt time.Time
	if row.NotifiedAt.Valid {
		notifiedAt = row.NotifiedAt.Time
	}
	return model.NotificationRecord{
		SeminarID:  row.SeminarID,
		SeminarURL: row.SeminarUrl,
		Title:      row.Title,
		NotifiedAt: notifiedAt,
	}
}
