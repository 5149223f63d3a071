package entity

import "github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"

// FieldChange описывает одно фактическое изменение поля.
type FieldChange struct {
	Field ContactField             `json:"field"`
	Old   valueobject.OptionalText `json:"old"`
	New   valueobject.OptionalText `json:"new"`
}

// ContactDiff получается сравнением предложенных значений с действующими.
type ContactDiff struct {
	Changes   []FieldChange  `json:"changes"`
	Unchanged []ContactField `json:"unchanged"`
}

func (d ContactDiff) HasChanges() bool {
	return len(d.Changes) > 0
}

// DiffContacts сравнивает предложенные значения с действующими значениями акционера.
// В proposed попадают только переданные поля, уже нормализованные.
func DiffContacts(s *Shareholder, proposed map[ContactField]valueobject.OptionalText) ContactDiff {
	diff := ContactDiff{Changes: []FieldChange{}, Unchanged: []ContactField{}}
	for _, field := range ContactFields {
		value, ok := proposed[field]
		if !ok {
			continue
		}
		current := s.Contact(field).Effective()
		if value.Equal(current) {
			diff.Unchanged = append(diff.Unchanged, field)
			continue
		}
		diff.Changes = append(diff.Changes, FieldChange{Field: field, Old: current, New: value})
	}
	return diff
}

// Apply записывает изменения в переопределения акционера.
func (d ContactDiff) Apply(s *Shareholder) {
	for _, c := range d.Changes {
		s.SetUpdated(c.Field, c.New)
	}
}
