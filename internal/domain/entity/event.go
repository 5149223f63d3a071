package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
)

// EventPayload содержит дополнительные данные события. Код подтверждения сюда не пишется.
type EventPayload struct {
	VerificationType valueobject.VerificationType `json:"verificationType,omitempty"`
	PhoneNumber      string                       `json:"phoneNumber,omitempty"`
	CodeExpiresAt    *time.Time                   `json:"codeExpiresAt,omitempty"`
	Diff             *ContactDiff                 `json:"diff,omitempty"`
}

// VerificationEvent является неизменяемой записью журнала.
type VerificationEvent struct {
	ID              int64
	LogID           uuid.UUID
	ShareholderUUID uuid.UUID
	ShareholderCode string
	Type            valueobject.EventType
	Payload         EventPayload
	OccurredAt      time.Time
}

// NewEvent создаёт событие для сессии.
func NewEvent(session *VerificationSession, eventType valueobject.EventType, payload EventPayload, now time.Time) *VerificationEvent {
	return &VerificationEvent{
		LogID:           session.LogID,
		ShareholderUUID: session.ShareholderUUID,
		ShareholderCode: session.ShareholderCode,
		Type:            eventType,
		Payload:         payload,
		OccurredAt:      now,
	}
}

// FoldSession восстанавливает текущее состояние сессии по её событиям.
// Возвращает nil, если событий нет. Значение кода в журнале не хранится,
// поэтому RandomCode в результате всегда отсутствует.
func FoldSession(events []VerificationEvent) *VerificationSession {
	if len(events) == 0 {
		return nil
	}

	ordered := make([]VerificationEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].OccurredAt.Equal(ordered[j].OccurredAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
	})

	first := ordered[0]
	s := &VerificationSession{
		LogID:            first.LogID,
		ShareholderUUID:  first.ShareholderUUID,
		ShareholderCode:  first.ShareholderCode,
		ActionType:       valueobject.ActionTypeVisit,
		VerificationType: first.Payload.VerificationType,
		ActionTime:       first.OccurredAt,
	}

	for _, e := range ordered {
		switch e.Type {
		case valueobject.EventVisit:
			s.ActionTime = e.OccurredAt
			if e.Payload.VerificationType != "" {
				s.VerificationType = e.Payload.VerificationType
			}
		case valueobject.EventCodeIssued:
			issuedAt := e.OccurredAt
			s.ActionType = valueobject.ActionTypeVisit
			s.PhoneVerificationTime = nil
			s.VerificationType = valueobject.VerificationTypePhone
			s.PhoneNumberUsed = valueobject.NewOptionalText(e.Payload.PhoneNumber)
			s.CodeIssuedAt = &issuedAt
			s.ActionTime = e.OccurredAt
		case valueobject.EventVerified:
			s.MarkVerified(e.Payload.VerificationType, e.OccurredAt)
		case valueobject.EventContactUpdated:
			if e.Payload.Diff != nil {
				s.ApplyContactDiff(*e.Payload.Diff)
			}
		}
	}

	return s
}
