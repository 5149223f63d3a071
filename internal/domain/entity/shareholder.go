package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
)

// ContactField называет изменяемое контактное поле акционера.
type ContactField string

const (
	FieldAddress     ContactField = "address"
	FieldHomePhone   ContactField = "homePhone"
	FieldMobilePhone ContactField = "mobilePhone"
)

// ContactFields перечисляет поля в порядке записи.
var ContactFields = []ContactField{FieldAddress, FieldHomePhone, FieldMobilePhone}

// ContactValue хранит исходное значение и переопределение одного поля.
type ContactValue struct {
	Original valueobject.OptionalText
	Updated  valueobject.OptionalText
}

// Effective возвращает переопределение, если оно непустое, иначе исходное значение.
func (v ContactValue) Effective() valueobject.OptionalText {
	return v.Updated.Or(v.Original)
}

type Shareholder struct {
	Code        string
	UUID        uuid.UUID
	Name        valueobject.OptionalText
	IDLastFour  valueobject.OptionalText
	Address     ContactValue
	HomePhone   ContactValue
	MobilePhone ContactValue
	LoginCount  int
	UpdateCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Contact возвращает значение поля по имени.
func (s *Shareholder) Contact(field ContactField) ContactValue {
	switch field {
	case FieldAddress:
		return s.Address
	case FieldHomePhone:
		return s.HomePhone
	default:
		return s.MobilePhone
	}
}

// SetUpdated меняет переопределение поля.
func (s *Shareholder) SetUpdated(field ContactField, value valueobject.OptionalText) {
	switch field {
	case FieldAddress:
		s.Address.Updated = value
	case FieldHomePhone:
		s.HomePhone.Updated = value
	case FieldMobilePhone:
		s.MobilePhone.Updated = value
	}
}

// EffectiveMobile возвращает мобильный номер, на который отправляются коды.
func (s *Shareholder) EffectiveMobile() valueobject.OptionalText {
	return s.MobilePhone.Effective()
}

func (s *Shareholder) HasMobile() bool {
	return s.EffectiveMobile().IsPresent()
}

// DefaultVerificationType выбирает способ проверки для новой сессии.
func (s *Shareholder) DefaultVerificationType() valueobject.VerificationType {
	if s.HasMobile() {
		return valueobject.VerificationTypePhone
	}
	return valueobject.VerificationTypeID
}

// Profile является публичным представлением акционера.
type Profile struct {
	ShareholderCode string                   `json:"shareholderCode"`
	Name            valueobject.OptionalText `json:"name"`
	Address         valueobject.OptionalText `json:"address"`
	HomePhone       valueobject.OptionalText `json:"homePhone"`
	MobilePhone     valueobject.OptionalText `json:"mobilePhone"`
	LoginCount      int                      `json:"loginCount"`
	UpdateCount     int                      `json:"updateCount"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

func (s *Shareholder) Profile() Profile {
	return Profile{
		ShareholderCode: s.Code,
		Name:            s.Name,
		Address:         s.Address.Effective(),
		HomePhone:       s.HomePhone.Effective(),
		MobilePhone:     s.MobilePhone.Effective(),
		LoginCount:      s.LoginCount,
		UpdateCount:     s.UpdateCount,
		UpdatedAt:       s.UpdatedAt,
	}
}
