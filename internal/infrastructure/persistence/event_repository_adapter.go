package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
	"github.com/ignatzorin/shareholder-portal/internal/pkg/apperror"
)

// EventRepositoryAdapter пишет журнал verification_events. Строки только добавляются.
type EventRepositoryAdapter struct {
	db *sqlx.DB
}

func NewEventRepositoryAdapter(db *sqlx.DB) *EventRepositoryAdapter {
	return &EventRepositoryAdapter{db: db}
}

func (r *EventRepositoryAdapter) Append(ctx context.Context, event *entity.VerificationEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	query := `
		INSERT INTO verification_events (log_id, shareholder_uuid, shareholder_code, event_type, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	if err := r.db.QueryRowxContext(ctx, query,
		event.LogID, event.ShareholderUUID, event.ShareholderCode,
		string(event.Type), payload, event.OccurredAt,
	).Scan(&event.ID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to append verification event")
	}
	return nil
}

func (r *EventRepositoryAdapter) ListByLogID(ctx context.Context, logID uuid.UUID) ([]entity.VerificationEvent, error) {
	var rows []eventRow
	query := `
		SELECT id, log_id, shareholder_uuid, shareholder_code, event_type, payload, occurred_at
		FROM verification_events WHERE log_id = $1 ORDER BY occurred_at, id
	`
	if err := r.db.SelectContext(ctx, &rows, query, logID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to load verification events")
	}

	events := make([]entity.VerificationEvent, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

type eventRow struct {
	ID              int64     `db:"id"`
	LogID           uuid.UUID `db:"log_id"`
	ShareholderUUID uuid.UUID `db:"shareholder_uuid"`
	ShareholderCode string    `db:"shareholder_code"`
	EventType       string    `db:"event_type"`
	Payload         []byte    `db:"payload"`
	OccurredAt      time.Time `db:"occurred_at"`
}

func (r eventRow) toEntity() (entity.VerificationEvent, error) {
	var payload entity.EventPayload
	if len(r.Payload) > 0 {
		if err := json.Unmarshal(r.Payload, &payload); err != nil {
			return entity.VerificationEvent{}, fmt.Errorf("unmarshal event %d payload: %w", r.ID, err)
		}
	}
	return entity.VerificationEvent{
		ID:              r.ID,
		LogID:           r.LogID,
		ShareholderUUID: r.ShareholderUUID,
		ShareholderCode: r.ShareholderCode,
		Type:            valueobject.EventType(r.EventType),
		Payload:         payload,
		OccurredAt:      r.OccurredAt,
	}, nil
}
