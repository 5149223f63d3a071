package trail

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/domain/repository"
	"github.com/ignatzorin/shareholder-portal/internal/pkg/apperror"
	"github.com/ignatzorin/shareholder-portal/internal/validation"
)

type TrailOutput struct {
	Events []entity.VerificationEvent
	// Session восстановлена по событиям.
	Session *entity.VerificationSession
	// Stored содержит текущую строку verification_sessions, если она есть.
	Stored *entity.VerificationSession
}

// GetTrailUseCase отдаёт журнал одной сессии.
type GetTrailUseCase struct {
	events   repository.EventRepository
	sessions repository.SessionRepository
}

func NewGetTrailUseCase(events repository.EventRepository, sessions repository.SessionRepository) *GetTrailUseCase {
	return &GetTrailUseCase{events: events, sessions: sessions}
}

func (uc *GetTrailUseCase) Execute(ctx context.Context, logID string) (*TrailOutput, error) {
	id, err := validation.ValidateIdentifier("logId", logID)
	if err != nil {
		return nil, err
	}
	parsed := uuid.MustParse(id)

	events, err := uc.events.ListByLogID(ctx, parsed)
	if err != nil {
		return nil, err
	}

	stored, err := uc.sessions.FindByLogID(ctx, parsed)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}

	if len(events) == 0 && stored == nil {
		return nil, apperror.ErrSessionNotFound
	}

	return &TrailOutput{Events: events, Session: entity.FoldSession(events), Stored: stored}, nil
}
