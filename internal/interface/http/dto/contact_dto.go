package dto

import (
	"encoding/json"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/usecase/contact"
)

// FieldValue отличает отсутствующий ключ от переданного значения.
// null и пустая строка означают очистку поля.
type FieldValue struct {
	Set   bool
	Value string
}

func (f *FieldValue) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Set = true
	if raw != nil {
		f.Value = *raw
	}
	return nil
}

func (f FieldValue) ptr() *string {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

type UpdateContactRequest struct {
	Address     FieldValue `json:"address"`
	HomePhone   FieldValue `json:"homePhone"`
	MobilePhone FieldValue `json:"mobilePhone"`
	SessionID   string     `json:"sessionId"`
}

func (r UpdateContactRequest) ToInput(shareholderCode string) contact.UpdateContactInput {
	return contact.UpdateContactInput{
		ShareholderCode: shareholderCode,
		Address:         r.Address.ptr(),
		HomePhone:       r.HomePhone.ptr(),
		MobilePhone:     r.MobilePhone.ptr(),
		SessionID:       r.SessionID,
	}
}

type UpdateContactResponse struct {
	Profile   entity.Profile        `json:"profile"`
	Changed   []entity.FieldChange  `json:"changed"`
	Unchanged []entity.ContactField `json:"unchanged"`
}

func NewUpdateContactResponse(out *contact.UpdateContactOutput) UpdateContactResponse {
	return UpdateContactResponse{
		Profile:   out.Profile,
		Changed:   out.Diff.Changes,
		Unchanged: out.Diff.Unchanged,
	}
}
