package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// OptionalText хранит строковое значение, которое может отсутствовать.
// Пустая строка и строка из пробелов всегда приводятся к отсутствию,
// поэтому сравнения ниже по стеку работают с одним представлением.
type OptionalText struct {
	value string
	valid bool
}

// Absent возвращает отсутствующее значение.
func Absent() OptionalText {
	return OptionalText{}
}

// NewOptionalText обрезает пробелы и нормализует пустую строку в отсутствие.
func NewOptionalText(raw string) OptionalText {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return OptionalText{}
	}
	return OptionalText{value: trimmed, valid: true}
}

// FromPtr нормализует указатель на строку (nil означает отсутствие).
func FromPtr(raw *string) OptionalText {
	if raw == nil {
		return OptionalText{}
	}
	return NewOptionalText(*raw)
}

func (t OptionalText) IsPresent() bool {
	return t.valid
}

// Get возвращает значение и флаг присутствия.
func (t OptionalText) Get() (string, bool) {
	return t.value, t.valid
}

// String возвращает значение или пустую строку.
func (t OptionalText) String() string {
	return t.value
}

// Ptr возвращает nil для отсутствующего значения.
func (t OptionalText) Ptr() *string {
	if !t.valid {
		return nil
	}
	v := t.value
	return &v
}

// Or возвращает t, если оно присутствует, иначе fallback.
func (t OptionalText) Or(fallback OptionalText) OptionalText {
	if t.valid {
		return t
	}
	return fallback
}

func (t OptionalText) Equal(other OptionalText) bool {
	return t.valid == other.valid && t.value == other.value
}

// Scan реализует sql.Scanner. NULL и пустые строки дают отсутствие.
func (t *OptionalText) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = OptionalText{}
	case string:
		*t = NewOptionalText(v)
	case []byte:
		*t = NewOptionalText(string(v))
	default:
		return fmt.Errorf("optional text: unsupported scan type %T", src)
	}
	return nil
}

// Value реализует driver.Valuer: отсутствие пишется как NULL.
func (t OptionalText) Value() (driver.Value, error) {
	if !t.valid {
		return nil, nil
	}
	return t.value, nil
}

func (t OptionalText) MarshalJSON() ([]byte, error) {
	if !t.valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}

func (t *OptionalText) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = FromPtr(raw)
	return nil
}
