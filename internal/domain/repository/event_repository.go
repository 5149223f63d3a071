package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
)

// EventRepository хранит журнал событий только на добавление.
type EventRepository interface {
	Append(ctx context.Context, event *entity.VerificationEvent) error
	ListByLogID(ctx context.Context, logID uuid.UUID) ([]entity.VerificationEvent, error)
}
