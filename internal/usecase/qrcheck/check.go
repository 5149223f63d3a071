package qrcheck

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shareholder-portal/internal/audit"
	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/domain/repository"
	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
	"github.com/ignatzorin/shareholder-portal/internal/metrics"
	"github.com/ignatzorin/shareholder-portal/internal/pkg/apperror"
	"github.com/ignatzorin/shareholder-portal/internal/validation"
)

type CheckOutput struct {
	HasPhoneNumber bool
	PhoneNumber    valueobject.OptionalText
	// SessionID пуст, если сессию записать не удалось.
	SessionID string
	Profile   entity.Profile
}

// CheckUseCase проверяет отсканированный QR-код и открывает сессию верификации.
type CheckUseCase struct {
	shareholders repository.ShareholderRepository
	sessions     repository.SessionRepository
	recorder     *audit.Recorder
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewCheckUseCase(
	shareholders repository.ShareholderRepository,
	sessions repository.SessionRepository,
	recorder *audit.Recorder,
	m *metrics.Metrics,
	now func() time.Time,
) *CheckUseCase {
	return &CheckUseCase{shareholders: shareholders, sessions: sessions, recorder: recorder, metrics: m, now: now}
}

func (uc *CheckUseCase) Execute(ctx context.Context, identifier string) (out *CheckOutput, err error) {
	defer func() { uc.metrics.ObserveQRCheck(metrics.ResultOf(err)) }()

	id, err := validation.ValidateIdentifier("identifier", identifier)
	if err != nil {
		return nil, err
	}

	shareholder, err := uc.shareholders.FindByUUID(ctx, uuid.MustParse(id))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrQrCodeInvalid
		}
		return nil, err
	}

	out = &CheckOutput{
		HasPhoneNumber: shareholder.HasMobile(),
		PhoneNumber:    shareholder.EffectiveMobile(),
		Profile:        shareholder.Profile(),
	}
	if session := uc.openSession(ctx, shareholder); session != nil {
		out.SessionID = session.LogID.String()
	}
	return out, nil
}

// openSession записывает визит. Ошибки не влияют на результат проверки.
func (uc *CheckUseCase) openSession(ctx context.Context, shareholder *entity.Shareholder) *entity.VerificationSession {
	now := uc.now()
	session := entity.NewVisitSession(shareholder, now)
	if err := uc.sessions.Create(ctx, session); err != nil {
		uc.recorder.Failed(string(valueobject.EventVisit), err, logrus.Fields{
			"shareholder_code": shareholder.Code,
		})
		return nil
	}

	uc.recorder.Record(ctx, entity.NewEvent(session, valueobject.EventVisit, entity.EventPayload{
		VerificationType: session.VerificationType,
	}, now))
	return session
}
