package valueobject

import "github.com/ignatzorin/shareholder-portal/internal/pkg/apperror"

type VerificationType string

const (
	VerificationTypePhone VerificationType = "phone"
	VerificationTypeID    VerificationType = "id"
)

func (t VerificationType) IsValid() bool {
	switch t {
	case VerificationTypePhone, VerificationTypeID:
		return true
	}
	return false
}

func NewVerificationType(raw string) (VerificationType, error) {
	t := VerificationType(raw)
	if !t.IsValid() {
		return "", apperror.InvalidFormat("type")
	}
	return t, nil
}

type ActionType string

const (
	ActionTypeVisit  ActionType = "visit"
	ActionTypeVerify ActionType = "verify"
)

func (a ActionType) IsValid() bool {
	return a == ActionTypeVisit || a == ActionTypeVerify
}

// EventType задаёт тип неизменяемого события в журнале верификации.
type EventType string

const (
	EventVisit          EventType = "visit"
	EventCodeIssued     EventType = "code_issued"
	EventVerified       EventType = "verified"
	EventContactUpdated EventType = "contact_updated"
)

func (e EventType) IsValid() bool {
	switch e {
	case EventVisit, EventCodeIssued, EventVerified, EventContactUpdated:
		return true
	}
	return false
}
