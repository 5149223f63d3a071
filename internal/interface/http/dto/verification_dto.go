package dto

import (
	"time"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
	"github.com/ignatzorin/shareholder-portal/internal/usecase/qrcheck"
	"github.com/ignatzorin/shareholder-portal/internal/usecase/verification"
)

// Обязательность полей проверяют usecase-ы, чтобы отличать MISSING_FIELD от INVALID_FORMAT.

type CheckRequest struct {
	Identifier string `json:"identifier"`
}

type CheckResponse struct {
	HasPhoneNumber bool                     `json:"hasPhoneNumber"`
	PhoneNumber    valueobject.OptionalText `json:"phoneNumber"`
	SessionID      string                   `json:"sessionId"`
	Profile        entity.Profile           `json:"profile"`
}

func NewCheckResponse(out *qrcheck.CheckOutput) CheckResponse {
	return CheckResponse{
		HasPhoneNumber: out.HasPhoneNumber,
		PhoneNumber:    out.PhoneNumber,
		SessionID:      out.SessionID,
		Profile:        out.Profile,
	}
}

type IssueCodeRequest struct {
	Identifier  string `json:"identifier"`
	PhoneNumber string `json:"phoneNumber"`
	SessionID   string `json:"sessionId"`
}

func (r IssueCodeRequest) ToInput() verification.IssueCodeInput {
	return verification.IssueCodeInput{
		Identifier:  r.Identifier,
		PhoneNumber: r.PhoneNumber,
		SessionID:   r.SessionID,
	}
}

type IssueCodeResponse struct {
	ExpiresAt time.Time `json:"expiresAt"`
	SessionID string    `json:"sessionId"`
	Code      string    `json:"code,omitempty"`
}

func NewIssueCodeResponse(out *verification.IssueCodeOutput) IssueCodeResponse {
	return IssueCodeResponse{ExpiresAt: out.ExpiresAt, SessionID: out.SessionID, Code: out.Code}
}

type VerifyRequest struct {
	Identifier  string `json:"identifier"`
	Type        string `json:"type"`
	Secret      string `json:"secret"`
	PhoneNumber string `json:"phoneNumber"`
	SessionID   string `json:"sessionId"`
}

func (r VerifyRequest) ToInput() verification.VerifyInput {
	return verification.VerifyInput{
		Identifier:  r.Identifier,
		Type:        r.Type,
		Secret:      r.Secret,
		PhoneNumber: r.PhoneNumber,
		SessionID:   r.SessionID,
	}
}

type VerifyResponse struct {
	Verified  bool           `json:"verified"`
	Profile   entity.Profile `json:"profile"`
	SessionID string         `json:"sessionId"`
}

func NewVerifyResponse(out *verification.VerifyOutput) VerifyResponse {
	return VerifyResponse{Verified: out.Verified, Profile: out.Profile, SessionID: out.SessionID}
}
