package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
	"github.com/ignatzorin/shareholder-portal/internal/pkg/apperror"
)

// Константы валидации
const (
	ShareholderCodeLength = 6
	SecretLength          = 4
	MaxAddressLength      = 200
)

var (
	// Канонический вид UUID: 8-4-4-4-12 шестнадцатеричных символов.
	canonicalUUIDRegex   = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	shareholderCodeRegex = regexp.MustCompile(`^\d{6}$`)
	fourDigitsRegex      = regexp.MustCompile(`^\d{4}$`)
	// Городской номер: код зоны, необязательный дефис, номер и добавочный через #.
	homePhoneRegex   = regexp.MustCompile(`^0\d{1,3}-?\d{5,8}(#\d{1,6})?$`)
	mobilePhoneRegex = regexp.MustCompile(`^09\d{8}$`)
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return apperror.New(apperror.ErrCodeInvalidFormat, fieldName+" is too short")
	}
	if max > 0 && length > max {
		return apperror.New(apperror.ErrCodeInvalidFormat, fieldName+" is too long")
	}
	return nil
}

// ValidateIdentifier проверяет идентификатор из QR-кода.
func ValidateIdentifier(fieldName, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", apperror.MissingField(fieldName)
	}
	if !canonicalUUIDRegex.MatchString(value) {
		return "", apperror.InvalidFormat(fieldName)
	}
	return strings.ToLower(value), nil
}

// ValidateOptionalSessionID проверяет log_id, если он передан. Пустое значение допустимо.
func ValidateOptionalSessionID(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return ValidateIdentifier("sessionId", raw)
}

// ValidateShareholderCode проверяет шестизначный код акционера.
func ValidateShareholderCode(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", apperror.MissingField("shareholderCode")
	}
	if !shareholderCodeRegex.MatchString(value) {
		return "", apperror.InvalidFormat("shareholderCode")
	}
	return value, nil
}

// ValidateSecret проверяет четырёхзначный секрет (SMS-код или последние цифры ID).
func ValidateSecret(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", apperror.MissingField("secret")
	}
	if !fourDigitsRegex.MatchString(value) {
		return "", apperror.InvalidFormat("secret")
	}
	return value, nil
}

// ValidatePhoneNumber проверяет, что номер передан. Значение возвращается
// как есть, без обрезки и нормализации: номер из одних пробелов считается
// непереданным, остальное сравнивается с сохранённым номером строго.
func ValidatePhoneNumber(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperror.MissingField("phoneNumber")
	}
	return raw, nil
}

// ValidateAddress проверяет адрес. Отсутствующее значение допустимо.
func ValidateAddress(address valueobject.OptionalText) error {
	value, ok := address.Get()
	if !ok {
		return nil
	}
	if err := ValidateLength("address", value, 0, MaxAddressLength); err != nil {
		return err
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return apperror.InvalidFormat("address")
		}
	}
	return nil
}

// ValidateHomePhone проверяет городской номер.
func ValidateHomePhone(phone valueobject.OptionalText) error {
	value, ok := phone.Get()
	if !ok {
		return nil
	}
	if !homePhoneRegex.MatchString(value) {
		return apperror.InvalidFormat("homePhone")
	}
	return nil
}

// ValidateMobilePhone проверяет мобильный номер.
func ValidateMobilePhone(phone valueobject.OptionalText) error {
	value, ok := phone.Get()
	if !ok {
		return nil
	}
	if !mobilePhoneRegex.MatchString(value) {
		return apperror.InvalidFormat("mobilePhone")
	}
	return nil
}
