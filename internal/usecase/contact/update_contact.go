package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shareholder-portal/internal/audit"
	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/domain/repository"
	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
	"github.com/ignatzorin/shareholder-portal/internal/logger"
	"github.com/ignatzorin/shareholder-portal/internal/metrics"
	"github.com/ignatzorin/shareholder-portal/internal/pkg/apperror"
	"github.com/ignatzorin/shareholder-portal/internal/validation"
)

// UpdateContactInput: nil означает, что поле не передано.
type UpdateContactInput struct {
	ShareholderCode string
	Address         *string
	HomePhone       *string
	MobilePhone     *string
	SessionID       string
}

type UpdateContactOutput struct {
	Profile entity.Profile
	Diff    entity.ContactDiff
}

type UpdateContactUseCase struct {
	shareholders repository.ShareholderRepository
	sessions     repository.SessionRepository
	contacts     repository.ContactWriter
	recorder     *audit.Recorder
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewUpdateContactUseCase(
	shareholders repository.ShareholderRepository,
	sessions repository.SessionRepository,
	contacts repository.ContactWriter,
	recorder *audit.Recorder,
	m *metrics.Metrics,
	now func() time.Time,
) *UpdateContactUseCase {
	return &UpdateContactUseCase{
		shareholders: shareholders,
		sessions:     sessions,
		contacts:     contacts,
		recorder:     recorder,
		metrics:      m,
		now:          now,
	}
}

var fieldValidators = map[entity.ContactField]func(valueobject.OptionalText) error{
	entity.FieldAddress:     validation.ValidateAddress,
	entity.FieldHomePhone:   validation.ValidateHomePhone,
	entity.FieldMobilePhone: validation.ValidateMobilePhone,
}

func (uc *UpdateContactUseCase) Execute(ctx context.Context, input UpdateContactInput) (*UpdateContactOutput, error) {
	proposed := proposedFields(input)
	if len(proposed) == 0 {
		return nil, apperror.New(apperror.ErrCodeMissingField, "at least one contact field is required")
	}

	code, err := validation.ValidateShareholderCode(input.ShareholderCode)
	if err != nil {
		return nil, err
	}
	sessionID, err := validation.ValidateOptionalSessionID(input.SessionID)
	if err != nil {
		return nil, err
	}

	// Все поля проверяются до первой записи: группа пишется целиком или никак.
	for _, field := range entity.ContactFields {
		value, ok := proposed[field]
		if !ok {
			continue
		}
		if err := fieldValidators[field](value); err != nil {
			return nil, err
		}
	}

	shareholder, err := uc.shareholders.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	session, err := uc.findSession(ctx, shareholder, sessionID)
	if err != nil {
		return nil, err
	}

	diff := entity.DiffContacts(shareholder, proposed)
	shareholder.UpdatedAt = uc.now()
	if err := uc.contacts.SaveContactUpdate(ctx, shareholder, diff, session); err != nil {
		return nil, err
	}
	uc.metrics.ObserveContactUpdate(diff.HasChanges())

	refreshed, err := uc.shareholders.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if session != nil {
		uc.recorder.Record(ctx, entity.NewEvent(session, valueobject.EventContactUpdated, entity.EventPayload{
			Diff: &diff,
		}, shareholder.UpdatedAt))
	}

	return &UpdateContactOutput{Profile: refreshed.Profile(), Diff: diff}, nil
}

func proposedFields(input UpdateContactInput) map[entity.ContactField]valueobject.OptionalText {
	proposed := make(map[entity.ContactField]valueobject.OptionalText, 3)
	if input.Address != nil {
		proposed[entity.FieldAddress] = valueobject.FromPtr(input.Address)
	}
	if input.HomePhone != nil {
		proposed[entity.FieldHomePhone] = valueobject.FromPtr(input.HomePhone)
	}
	if input.MobilePhone != nil {
		proposed[entity.FieldMobilePhone] = valueobject.FromPtr(input.MobilePhone)
	}
	return proposed
}

// findSession возвращает сессию этого акционера. Чужая или отсутствующая
// сессия не блокирует обновление: строку журнала просто не трогаем.
func (uc *UpdateContactUseCase) findSession(ctx context.Context, shareholder *entity.Shareholder, sessionID string) (*entity.VerificationSession, error) {
	if sessionID == "" {
		return nil, nil
	}
	session, err := uc.sessions.FindByLogID(ctx, uuid.MustParse(sessionID))
	if err != nil {
		if apperror.IsNotFound(err) {
			logger.Log.WithFields(logrus.Fields{
				"log_id":           sessionID,
				"shareholder_code": shareholder.Code,
			}).Warn("contact update session not found")
			return nil, nil
		}
		return nil, err
	}
	if session.ShareholderCode != shareholder.Code {
		logger.Log.WithFields(logrus.Fields{
			"log_id":           sessionID,
			"shareholder_code": shareholder.Code,
		}).Warn("contact update session belongs to another shareholder")
		return nil, nil
	}
	return session, nil
}
