package verification

import (
	"context"
	"fmt"
	"math"
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

const codeMessage = "Your shareholder portal verification code is %s. It expires in %d seconds."

type IssueCodeInput struct {
	Identifier  string
	PhoneNumber string
	SessionID   string
}

type IssueCodeOutput struct {
	ExpiresAt time.Time
	SessionID string
	// Code заполняется только в тестовом режиме.
	Code string
}

type IssueCodeUseCase struct {
	shareholders repository.ShareholderRepository
	sessions     repository.SessionRepository
	cooldown     Cooldown
	sender       Sender
	recorder     *audit.Recorder
	metrics      *metrics.Metrics
	now          func() time.Time
	testMode     bool
	generate     func() (string, error)
}

func NewIssueCodeUseCase(
	shareholders repository.ShareholderRepository,
	sessions repository.SessionRepository,
	cooldown Cooldown,
	sender Sender,
	recorder *audit.Recorder,
	m *metrics.Metrics,
	now func() time.Time,
	testMode bool,
) *IssueCodeUseCase {
	return &IssueCodeUseCase{
		shareholders: shareholders,
		sessions:     sessions,
		cooldown:     cooldown,
		sender:       sender,
		recorder:     recorder,
		metrics:      m,
		now:          now,
		testMode:     testMode,
		generate:     GenerateCode,
	}
}

// WithGenerator подменяет генератор кода.
func (uc *IssueCodeUseCase) WithGenerator(generate func() (string, error)) *IssueCodeUseCase {
	uc.generate = generate
	return uc
}

func (uc *IssueCodeUseCase) Execute(ctx context.Context, input IssueCodeInput) (out *IssueCodeOutput, err error) {
	defer func() { uc.metrics.ObserveCodeIssued(metrics.ResultOf(err)) }()

	id, err := validation.ValidateIdentifier("identifier", input.Identifier)
	if err != nil {
		return nil, err
	}
	phone, err := validation.ValidatePhoneNumber(input.PhoneNumber)
	if err != nil {
		return nil, err
	}
	sessionID, err := validation.ValidateOptionalSessionID(input.SessionID)
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

	mobile, ok := shareholder.EffectiveMobile().Get()
	if !ok || phone != mobile {
		return nil, apperror.ErrAuthenticationFailed
	}

	key := cooldownKey(id, phone)
	left, err := uc.cooldown.Reserve(ctx, key)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to check resend cooldown")
	}
	if left > 0 {
		seconds := int(math.Ceil(left.Seconds()))
		return nil, apperror.New(apperror.ErrCodeCooldownActive,
			fmt.Sprintf("please wait %d seconds before requesting a new code", seconds))
	}
	// Окно занято до отправки. Если код так и не ушёл, окно освобождается,
	// и повторный запрос проходит сразу.
	defer func() {
		if err != nil {
			uc.releaseCooldown(ctx, key, shareholder.Code)
		}
	}()

	code, err := uc.generate()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to generate verification code")
	}

	now := uc.now()
	session, err := uc.storeCode(ctx, shareholder, sessionID, phone, code, now)
	if err != nil {
		return nil, err
	}

	if !uc.testMode {
		message := fmt.Sprintf(codeMessage, code, int(entity.CodeTTL.Seconds()))
		if sendErr := uc.sender.Send(ctx, phone, message); sendErr != nil {
			return nil, apperror.Wrap(sendErr, apperror.ErrCodeDeliveryFailed, "failed to deliver verification code")
		}
	}

	expiresAt, _ := session.CodeExpiresAt()
	uc.recorder.Record(ctx, entity.NewEvent(session, valueobject.EventCodeIssued, entity.EventPayload{
		VerificationType: valueobject.VerificationTypePhone,
		PhoneNumber:      phone,
		CodeExpiresAt:    &expiresAt,
	}, now))

	out = &IssueCodeOutput{ExpiresAt: expiresAt, SessionID: session.LogID.String()}
	if uc.testMode {
		out.Code = code
	}
	return out, nil
}

func (uc *IssueCodeUseCase) releaseCooldown(ctx context.Context, key, shareholderCode string) {
	if err := uc.cooldown.Release(context.WithoutCancel(ctx), key); err != nil {
		logger.Log.WithField("shareholder_code", shareholderCode).
			WithError(err).Warn("resend cooldown not released")
	}
}

// storeCode пишет код в сессию из запроса. Если сессия не передана или
// не найдена у этого акционера, создаётся новая строка.
func (uc *IssueCodeUseCase) storeCode(ctx context.Context, shareholder *entity.Shareholder, sessionID, phone, code string, now time.Time) (*entity.VerificationSession, error) {
	session, err := findOwnSession(ctx, uc.sessions, shareholder, sessionID)
	if err != nil {
		return nil, err
	}

	if session != nil {
		session.IssueCode(phone, code, now)
		if err := uc.sessions.Update(ctx, session); err != nil {
			return nil, asDatabaseError(err, "failed to store verification code")
		}
		return session, nil
	}

	session = entity.NewVisitSession(shareholder, now)
	session.IssueCode(phone, code, now)
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, asDatabaseError(err, "failed to store verification code")
	}
	return session, nil
}

// findOwnSession возвращает nil без ошибки, если сессии нет или она принадлежит другому акционеру.
func findOwnSession(ctx context.Context, sessions repository.SessionRepository, shareholder *entity.Shareholder, sessionID string) (*entity.VerificationSession, error) {
	if sessionID == "" {
		return nil, nil
	}
	session, err := sessions.FindByLogID(ctx, uuid.MustParse(sessionID))
	if err != nil {
		if apperror.IsNotFound(err) {
			logger.Log.WithFields(logrus.Fields{
				"log_id":           sessionID,
				"shareholder_code": shareholder.Code,
			}).Warn("verification session not found, creating a new one")
			return nil, nil
		}
		return nil, err
	}
	if session.ShareholderUUID != shareholder.UUID {
		logger.Log.WithFields(logrus.Fields{
			"log_id":           sessionID,
			"shareholder_code": shareholder.Code,
		}).Warn("verification session belongs to another shareholder, creating a new one")
		return nil, nil
	}
	return session, nil
}

func cooldownKey(identifier, phone string) string {
	return identifier + ":" + phone
}

func asDatabaseError(err error, message string) error {
	if apperror.CodeOf(err) != apperror.ErrCodeInternal {
		return err
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, message)
}
