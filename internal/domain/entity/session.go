package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
)

// CodeTTL задаёт окно действия SMS-кода с момента выпуска.
const CodeTTL = 60 * time.Second

// VerificationSession хранит текущее состояние одного сканирования QR-кода.
// Строка изменяется на месте: visit → code issued → verify.
type VerificationSession struct {
	LogID                 uuid.UUID
	ShareholderUUID       uuid.UUID
	ShareholderCode       string
	ActionType            valueobject.ActionType
	VerificationType      valueobject.VerificationType
	PhoneNumberUsed       valueobject.OptionalText
	RandomCode            valueobject.OptionalText
	CodeIssuedAt          *time.Time
	ActionTime            time.Time
	PhoneVerificationTime *time.Time
	HasUpdatedData        bool
	UpdatedAddress        valueobject.OptionalText
	UpdatedHomePhone      valueobject.OptionalText
	UpdatedMobilePhone    valueobject.OptionalText
}

// NewVisitSession открывает сессию при первом сканировании.
func NewVisitSession(s *Shareholder, now time.Time) *VerificationSession {
	return &VerificationSession{
		LogID:            uuid.New(),
		ShareholderUUID:  s.UUID,
		ShareholderCode:  s.Code,
		ActionType:       valueobject.ActionTypeVisit,
		VerificationType: s.DefaultVerificationType(),
		ActionTime:       now,
	}
}

// IssueCode сохраняет выпущенный код. Предыдущий код перестаёт учитываться,
// а уже подтверждённая сессия снова ждёт подтверждения.
func (v *VerificationSession) IssueCode(phone, code string, now time.Time) {
	issuedAt := now
	v.ActionType = valueobject.ActionTypeVisit
	v.PhoneVerificationTime = nil
	v.VerificationType = valueobject.VerificationTypePhone
	v.PhoneNumberUsed = valueobject.NewOptionalText(phone)
	v.RandomCode = valueobject.NewOptionalText(code)
	v.CodeIssuedAt = &issuedAt
	v.ActionTime = now
}

// CodeExpiresAt возвращает момент истечения кода.
func (v *VerificationSession) CodeExpiresAt() (time.Time, bool) {
	if v.CodeIssuedAt == nil {
		return time.Time{}, false
	}
	return v.CodeIssuedAt.Add(CodeTTL), true
}

// CodeExpired сообщает, прошло ли больше CodeTTL с момента выпуска.
// Ровно 60 секунд ещё считаются действительными.
func (v *VerificationSession) CodeExpired(now time.Time) bool {
	if v.CodeIssuedAt == nil {
		return true
	}
	return now.Sub(*v.CodeIssuedAt) > CodeTTL
}

// MarkVerified переводит сессию в состояние verify.
func (v *VerificationSession) MarkVerified(method valueobject.VerificationType, now time.Time) {
	v.ActionType = valueobject.ActionTypeVerify
	v.VerificationType = method
	v.ActionTime = now
	if method == valueobject.VerificationTypePhone {
		t := now
		v.PhoneVerificationTime = &t
	}
}

// ApplyContactDiff отмечает изменённые контактные данные.
func (v *VerificationSession) ApplyContactDiff(diff ContactDiff) {
	if !diff.HasChanges() {
		return
	}
	v.HasUpdatedData = true
	for _, change := range diff.Changes {
		switch change.Field {
		case FieldAddress:
			v.UpdatedAddress = change.New
		case FieldHomePhone:
			v.UpdatedHomePhone = change.New
		case FieldMobilePhone:
			v.UpdatedMobilePhone = change.New
		}
	}
}
