package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func shareholder() *Shareholder {
	return &Shareholder{
		Code:        "000001",
		UUID:        uuid.MustParse("6f1c2a1e-8c1b-4d7e-9a55-0b1d2f3e4a5b"),
		Address:     ContactValue{Original: valueobject.NewOptionalText("信義路一段1號")},
		HomePhone:   ContactValue{Original: valueobject.NewOptionalText("02-12345678")},
		MobilePhone: ContactValue{Original: valueobject.NewOptionalText("0912345678")},
	}
}

func TestShareholder_EffectiveContacts(t *testing.T) {
	s := shareholder()
	assert.Equal(t, "0912345678", s.EffectiveMobile().String())

	s.MobilePhone.Updated = valueobject.NewOptionalText("0922333444")
	assert.Equal(t, "0922333444", s.EffectiveMobile().String())
	assert.Equal(t, "0922333444", s.Profile().MobilePhone.String())

	s.MobilePhone = ContactValue{Original: valueobject.NewOptionalText(" ")}
	assert.False(t, s.HasMobile())
	assert.Equal(t, valueobject.VerificationTypeID, s.DefaultVerificationType())
}

func TestSession_CodeExpiry(t *testing.T) {
	s := NewVisitSession(shareholder(), t0)
	assert.True(t, s.CodeExpired(t0), "без кода сессия считается истёкшей")

	s.IssueCode("0912345678", "1234", t0)

	expiresAt, ok := s.CodeExpiresAt()
	require.True(t, ok)
	assert.Equal(t, t0.Add(60*time.Second), expiresAt)

	assert.False(t, s.CodeExpired(t0.Add(59*time.Second)))
	assert.False(t, s.CodeExpired(t0.Add(60*time.Second)))
	assert.True(t, s.CodeExpired(t0.Add(61*time.Second)))
}

func TestSession_MarkVerified(t *testing.T) {
	s := NewVisitSession(shareholder(), t0)

	s.MarkVerified(valueobject.VerificationTypeID, t0.Add(time.Minute))
	assert.Equal(t, valueobject.ActionTypeVerify, s.ActionType)
	assert.Nil(t, s.PhoneVerificationTime)

	s.MarkVerified(valueobject.VerificationTypePhone, t0.Add(2*time.Minute))
	require.NotNil(t, s.PhoneVerificationTime)
	assert.Equal(t, t0.Add(2*time.Minute), *s.PhoneVerificationTime)
}

func TestSession_ReissueAfterVerificationResetsState(t *testing.T) {
	s := NewVisitSession(shareholder(), t0)
	s.IssueCode("0912345678", "4821", t0)
	s.MarkVerified(valueobject.VerificationTypePhone, t0.Add(10*time.Second))

	s.IssueCode("0912345678", "7310", t0.Add(2*time.Minute))

	assert.Equal(t, valueobject.ActionTypeVisit, s.ActionType)
	assert.Nil(t, s.PhoneVerificationTime)
	assert.Equal(t, "7310", s.RandomCode.String())
	require.NotNil(t, s.CodeIssuedAt)
	assert.Equal(t, t0.Add(2*time.Minute), *s.CodeIssuedAt)
}

func TestDiffContacts(t *testing.T) {
	s := shareholder()
	s.HomePhone.Updated = valueobject.NewOptionalText("02-87654321")

	diff := DiffContacts(s, map[ContactField]valueobject.OptionalText{
		FieldAddress:   valueobject.NewOptionalText("信義路一段1號"),
		FieldHomePhone: valueobject.NewOptionalText("02-12345678"),
	})

	require.Len(t, diff.Changes, 1)
	assert.Equal(t, FieldHomePhone, diff.Changes[0].Field)
	assert.Equal(t, "02-87654321", diff.Changes[0].Old.String())
	assert.Equal(t, []ContactField{FieldAddress}, diff.Unchanged)

	diff.Apply(s)
	assert.Equal(t, "02-12345678", s.HomePhone.Effective().String())
}

func TestDiffContacts_NothingProposed(t *testing.T) {
	diff := DiffContacts(shareholder(), nil)
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.Unchanged)
}

func TestSession_ApplyContactDiff(t *testing.T) {
	s := NewVisitSession(shareholder(), t0)

	s.ApplyContactDiff(ContactDiff{Unchanged: []ContactField{FieldAddress}})
	assert.False(t, s.HasUpdatedData)

	s.ApplyContactDiff(ContactDiff{Changes: []FieldChange{{Field: FieldAddress, New: valueobject.NewOptionalText("新地址")}}})
	assert.True(t, s.HasUpdatedData)
	assert.Equal(t, "新地址", s.UpdatedAddress.String())
	assert.False(t, s.UpdatedMobilePhone.IsPresent())
}

func TestFoldSession(t *testing.T) {
	assert.Nil(t, FoldSession(nil))

	s := NewVisitSession(shareholder(), t0)
	diff := ContactDiff{Changes: []FieldChange{{Field: FieldMobilePhone, New: valueobject.NewOptionalText("0922333444")}}}
	events := []VerificationEvent{
		// Порядок намеренно перемешан: свёртка сортирует по времени и id.
		*withID(NewEvent(s, valueobject.EventVerified, EventPayload{VerificationType: valueobject.VerificationTypePhone}, t0.Add(30*time.Second)), 3),
		*withID(NewEvent(s, valueobject.EventVisit, EventPayload{VerificationType: valueobject.VerificationTypePhone}, t0), 1),
		*withID(NewEvent(s, valueobject.EventContactUpdated, EventPayload{Diff: &diff}, t0.Add(40*time.Second)), 4),
		*withID(NewEvent(s, valueobject.EventCodeIssued, EventPayload{PhoneNumber: "0912345678"}, t0.Add(10*time.Second)), 2),
	}

	folded := FoldSession(events)

	require.NotNil(t, folded)
	assert.Equal(t, s.LogID, folded.LogID)
	assert.Equal(t, valueobject.ActionTypeVerify, folded.ActionType)
	assert.Equal(t, valueobject.VerificationTypePhone, folded.VerificationType)
	assert.Equal(t, "0912345678", folded.PhoneNumberUsed.String())
	require.NotNil(t, folded.CodeIssuedAt)
	assert.Equal(t, t0.Add(10*time.Second), *folded.CodeIssuedAt)
	require.NotNil(t, folded.PhoneVerificationTime)
	assert.Equal(t, t0.Add(30*time.Second), *folded.PhoneVerificationTime)
	assert.True(t, folded.HasUpdatedData)
	assert.Equal(t, "0922333444", folded.UpdatedMobilePhone.String())
	assert.False(t, folded.RandomCode.IsPresent())
}

func TestFoldSession_ReissueAfterVerification(t *testing.T) {
	s := NewVisitSession(shareholder(), t0)
	events := []VerificationEvent{
		*withID(NewEvent(s, valueobject.EventVisit, EventPayload{VerificationType: valueobject.VerificationTypePhone}, t0), 1),
		*withID(NewEvent(s, valueobject.EventCodeIssued, EventPayload{PhoneNumber: "0912345678"}, t0.Add(10*time.Second)), 2),
		*withID(NewEvent(s, valueobject.EventVerified, EventPayload{VerificationType: valueobject.VerificationTypePhone}, t0.Add(20*time.Second)), 3),
		*withID(NewEvent(s, valueobject.EventCodeIssued, EventPayload{PhoneNumber: "0912345678"}, t0.Add(2*time.Minute)), 4),
	}

	folded := FoldSession(events)

	require.NotNil(t, folded)
	assert.Equal(t, valueobject.ActionTypeVisit, folded.ActionType)
	assert.Nil(t, folded.PhoneVerificationTime)
	require.NotNil(t, folded.CodeIssuedAt)
	assert.Equal(t, t0.Add(2*time.Minute), *folded.CodeIssuedAt)
}

func withID(e *VerificationEvent, id int64) *VerificationEvent {
	e.ID = id
	return e
}
