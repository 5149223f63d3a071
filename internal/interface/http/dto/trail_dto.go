package dto

import (
	"time"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
	"github.com/ignatzorin/shareholder-portal/internal/usecase/trail"
)

type EventResponse struct {
	ID         int64               `json:"id"`
	Type       string              `json:"type"`
	Payload    entity.EventPayload `json:"payload"`
	OccurredAt time.Time           `json:"occurredAt"`
}

// SessionResponse не содержит random_code.
type SessionResponse struct {
	LogID                 string                   `json:"logId"`
	ShareholderCode       string                   `json:"shareholderCode"`
	ActionType            string                   `json:"actionType"`
	VerificationType      string                   `json:"verificationType"`
	PhoneNumberUsed       valueobject.OptionalText `json:"phoneNumberUsed"`
	CodeIssuedAt          *time.Time               `json:"codeIssuedAt"`
	ActionTime            time.Time                `json:"actionTime"`
	PhoneVerificationTime *time.Time               `json:"phoneVerificationTime"`
	HasUpdatedData        bool                     `json:"hasUpdatedData"`
	UpdatedAddress        valueobject.OptionalText `json:"updatedAddress"`
	UpdatedHomePhone      valueobject.OptionalText `json:"updatedHomePhone"`
	UpdatedMobilePhone    valueobject.OptionalText `json:"updatedMobilePhone"`
}

type TrailResponse struct {
	Events  []EventResponse  `json:"events"`
	Folded  *SessionResponse `json:"folded"`
	Current *SessionResponse `json:"current"`
}

func NewTrailResponse(out *trail.TrailOutput) TrailResponse {
	events := make([]EventResponse, 0, len(out.Events))
	for _, e := range out.Events {
		events = append(events, EventResponse{
			ID:         e.ID,
			Type:       string(e.Type),
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt,
		})
	}
	return TrailResponse{
		Events:  events,
		Folded:  newSessionResponse(out.Session),
		Current: newSessionResponse(out.Stored),
	}
}

func newSessionResponse(s *entity.VerificationSession) *SessionResponse {
	if s == nil {
		return nil
	}
	return &SessionResponse{
		LogID:                 s.LogID.String(),
		ShareholderCode:       s.ShareholderCode,
		ActionType:            string(s.ActionType),
		VerificationType:      string(s.VerificationType),
		PhoneNumberUsed:       s.PhoneNumberUsed,
		CodeIssuedAt:          s.CodeIssuedAt,
		ActionTime:            s.ActionTime,
		PhoneVerificationTime: s.PhoneVerificationTime,
		HasUpdatedData:        s.HasUpdatedData,
		UpdatedAddress:        s.UpdatedAddress,
		UpdatedHomePhone:      s.UpdatedHomePhone,
		UpdatedMobilePhone:    s.UpdatedMobilePhone,
	}
}
