package verification

import (
	"context"
	"strings"
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

type VerifyInput struct {
	Identifier  string
	Type        string
	Secret      string
	PhoneNumber string
	SessionID   string
}

type VerifyOutput struct {
	Verified  bool
	Profile   entity.Profile
	SessionID string
}

// VerifyUseCase проверяет SMS-код или последние цифры ID и завершает сессию.
type VerifyUseCase struct {
	shareholders repository.ShareholderRepository
	sessions     repository.SessionRepository
	recorder     *audit.Recorder
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewVerifyUseCase(
	shareholders repository.ShareholderRepository,
	sessions repository.SessionRepository,
	recorder *audit.Recorder,
	m *metrics.Metrics,
	now func() time.Time,
) *VerifyUseCase {
	return &VerifyUseCase{shareholders: shareholders, sessions: sessions, recorder: recorder, metrics: m, now: now}
}

type verifyRequest struct {
	id        uuid.UUID
	method    valueobject.VerificationType
	secret    string
	phone     string
	sessionID string
}

func (uc *VerifyUseCase) Execute(ctx context.Context, input VerifyInput) (out *VerifyOutput, err error) {
	req, err := parseVerifyInput(input)
	if err != nil {
		uc.metrics.ObserveVerification("unknown", metrics.ResultOf(err))
		return nil, err
	}
	defer func() { uc.metrics.ObserveVerification(string(req.method), metrics.ResultOf(err)) }()

	shareholder, err := uc.shareholders.FindByUUID(ctx, req.id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrQrCodeInvalid
		}
		return nil, err
	}

	now := uc.now()
	switch req.method {
	case valueobject.VerificationTypePhone:
		err = uc.checkPhone(ctx, shareholder, req, now)
	default:
		err = uc.checkID(ctx, shareholder, req)
	}
	if err != nil {
		if apperror.Is(err, apperror.ErrCodeAuthentication) {
			logger.Log.WithFields(logrus.Fields{
				"shareholder_code": shareholder.Code,
				"method":           string(req.method),
				"reason":           err.Error(),
			}).Info("verification rejected")
		}
		return nil, err
	}

	sessionID := uc.finalize(ctx, shareholder, req, now)
	return &VerifyOutput{Verified: true, Profile: shareholder.Profile(), SessionID: sessionID}, nil
}

func parseVerifyInput(input VerifyInput) (verifyRequest, error) {
	var req verifyRequest

	id, err := validation.ValidateIdentifier("identifier", input.Identifier)
	if err != nil {
		return req, err
	}
	req.id = uuid.MustParse(id)

	rawType := strings.TrimSpace(input.Type)
	if rawType == "" {
		return req, apperror.MissingField("type")
	}
	if req.method, err = valueobject.NewVerificationType(rawType); err != nil {
		return req, err
	}

	if req.secret, err = validation.ValidateSecret(input.Secret); err != nil {
		return req, err
	}
	if req.method == valueobject.VerificationTypePhone {
		if req.phone, err = validation.ValidatePhoneNumber(input.PhoneNumber); err != nil {
			return req, err
		}
	}
	if req.sessionID, err = validation.ValidateOptionalSessionID(input.SessionID); err != nil {
		return req, err
	}
	return req, nil
}

// checkPhone сверяет код с последним выпущенным для пары (акционер, телефон).
func (uc *VerifyUseCase) checkPhone(ctx context.Context, shareholder *entity.Shareholder, req verifyRequest, now time.Time) error {
	mobile, ok := shareholder.EffectiveMobile().Get()
	if !ok || req.phone != mobile {
		return apperror.ErrAuthenticationFailed
	}

	latest, err := uc.sessions.FindLatestIssued(ctx, shareholder.UUID, req.phone)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.ErrAuthenticationFailed
		}
		return err
	}

	stored, ok := latest.RandomCode.Get()
	if !ok {
		return apperror.ErrAuthenticationFailed
	}
	if latest.CodeExpired(now) {
		return apperror.ErrVerificationCodeExpired
	}
	if !secretsEqual(req.secret, stored) {
		return apperror.ErrVerificationCodeIncorrect
	}
	return nil
}

// checkID сверяет суффикс ID и убеждается, что поиск по суффиксу
// находит того же акционера, что и поиск по QR-коду.
func (uc *VerifyUseCase) checkID(ctx context.Context, shareholder *entity.Shareholder, req verifyRequest) error {
	stored, ok := shareholder.IDLastFour.Get()
	if !ok || !secretsEqual(req.secret, stored) {
		return apperror.ErrAuthenticationFailed
	}

	matched, err := uc.shareholders.FindByUUIDAndIDSuffix(ctx, shareholder.UUID, req.secret)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.ErrAuthenticationFailed
		}
		return err
	}
	if matched.Code != shareholder.Code {
		return apperror.ErrAuthenticationFailed
	}
	return nil
}

// finalize учитывает вход и завершает сессию. Все записи здесь побочные:
// ошибки логируются, но не отменяют успешную проверку.
// Возвращает log_id завершённой сессии или пустую строку.
func (uc *VerifyUseCase) finalize(ctx context.Context, shareholder *entity.Shareholder, req verifyRequest, now time.Time) string {
	fields := logrus.Fields{"shareholder_code": shareholder.Code}

	if err := uc.shareholders.IncrementLoginCount(ctx, shareholder.Code, now); err != nil {
		uc.recorder.Failed("login_count", err, fields)
	} else {
		shareholder.LoginCount++
		shareholder.UpdatedAt = now
	}

	session, err := findOwnSession(ctx, uc.sessions, shareholder, req.sessionID)
	if err != nil {
		uc.recorder.Failed(string(valueobject.EventVerified), err, fields)
		return ""
	}

	if session != nil {
		session.MarkVerified(req.method, now)
		err = uc.sessions.Update(ctx, session)
	} else {
		session = entity.NewVisitSession(shareholder, now)
		if req.method == valueobject.VerificationTypePhone {
			session.PhoneNumberUsed = valueobject.NewOptionalText(req.phone)
		}
		session.MarkVerified(req.method, now)
		err = uc.sessions.Create(ctx, session)
	}
	if err != nil {
		fields["log_id"] = session.LogID.String()
		uc.recorder.Failed(string(valueobject.EventVerified), err, fields)
		return ""
	}

	payload := entity.EventPayload{VerificationType: req.method}
	if req.method == valueobject.VerificationTypePhone {
		payload.PhoneNumber = req.phone
	}
	uc.recorder.Record(ctx, entity.NewEvent(session, valueobject.EventVerified, payload, now))
	return session.LogID.String()
}
