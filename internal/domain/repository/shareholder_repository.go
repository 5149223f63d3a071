package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
)

type ShareholderRepository interface {
	FindByUUID(ctx context.Context, id uuid.UUID) (*entity.Shareholder, error)
	FindByUUIDAndIDSuffix(ctx context.Context, id uuid.UUID, idLastFour string) (*entity.Shareholder, error)
	FindByCode(ctx context.Context, code string) (*entity.Shareholder, error)
	IncrementLoginCount(ctx context.Context, code string, at time.Time) error
}
