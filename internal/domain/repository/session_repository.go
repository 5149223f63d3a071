package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.VerificationSession) error
	Update(ctx context.Context, session *entity.VerificationSession) error
	FindByLogID(ctx context.Context, logID uuid.UUID) (*entity.VerificationSession, error)
	// FindLatestIssued возвращает последнюю по времени выпуска кода сессию для пары (акционер, телефон).
	FindLatestIssued(ctx context.Context, shareholderUUID uuid.UUID, phone string) (*entity.VerificationSession, error)
}
