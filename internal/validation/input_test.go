package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
	"github.com/ignatzorin/shareholder-portal/internal/pkg/apperror"
)

func TestValidateIdentifier(t *testing.T) {
	got, err := ValidateIdentifier("identifier", " 6F1C2A1E-8C1B-4D7E-9A55-0B1D2F3E4A5B ")
	require.NoError(t, err)
	assert.Equal(t, "6f1c2a1e-8c1b-4d7e-9a55-0b1d2f3e4a5b", got)

	_, err = ValidateIdentifier("identifier", "")
	assert.Equal(t, apperror.ErrCodeMissingField, apperror.CodeOf(err))

	for _, raw := range []string{
		"6f1c2a1e8c1b4d7e9a550b1d2f3e4a5b",
		"urn:uuid:6f1c2a1e-8c1b-4d7e-9a55-0b1d2f3e4a5b",
		"6f1c2a1e-8c1b-4d7e-9a55-0b1d2f3e4a5",
		"zf1c2a1e-8c1b-4d7e-9a55-0b1d2f3e4a5b",
	} {
		_, err := ValidateIdentifier("identifier", raw)
		assert.Equal(t, apperror.ErrCodeInvalidFormat, apperror.CodeOf(err), raw)
	}
}

func TestValidateShareholderCode(t *testing.T) {
	got, err := ValidateShareholderCode("000001")
	require.NoError(t, err)
	assert.Equal(t, "000001", got)

	_, err = ValidateShareholderCode(" ")
	assert.Equal(t, apperror.ErrCodeMissingField, apperror.CodeOf(err))

	for _, raw := range []string{"12345", "1234567", "00000a", "０００００１"} {
		_, err := ValidateShareholderCode(raw)
		assert.Equal(t, apperror.ErrCodeInvalidFormat, apperror.CodeOf(err), raw)
	}
}

func TestValidateSecret(t *testing.T) {
	_, err := ValidateSecret("0042")
	assert.NoError(t, err)

	_, err = ValidateSecret("")
	assert.Equal(t, apperror.ErrCodeMissingField, apperror.CodeOf(err))

	for _, raw := range []string{"123", "12345", "12a4"} {
		_, err := ValidateSecret(raw)
		assert.Equal(t, apperror.ErrCodeInvalidFormat, apperror.CodeOf(err), raw)
	}
}

func TestValidateContactFields(t *testing.T) {
	text := valueobject.NewOptionalText

	assert.NoError(t, ValidateAddress(valueobject.Absent()))
	assert.NoError(t, ValidateAddress(text(strings.Repeat("路", MaxAddressLength))))
	assert.Error(t, ValidateAddress(text(strings.Repeat("路", MaxAddressLength+1))))
	assert.Error(t, ValidateAddress(text("新\n地址")))

	for _, ok := range []string{"02-12345678", "0212345678", "049-2345678#12"} {
		assert.NoError(t, ValidateHomePhone(text(ok)), ok)
	}
	for _, bad := range []string{"12345678", "02-123", "02-12345678#"} {
		assert.Error(t, ValidateHomePhone(text(bad)), bad)
	}

	assert.NoError(t, ValidateMobilePhone(text("0912345678")))
	assert.NoError(t, ValidateMobilePhone(valueobject.Absent()))
	for _, bad := range []string{"912345678", "0812345678", "09123456789", "0912-345678"} {
		assert.Error(t, ValidateMobilePhone(text(bad)), bad)
	}
}

func TestValidatePhoneNumber_KeepsValueAsIs(t *testing.T) {
	for _, raw := range []string{"0912345678", " 0912345678 ", "0912-345-678"} {
		got, err := ValidatePhoneNumber(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, got)
	}

	for _, blank := range []string{"", "   ", "\t"} {
		_, err := ValidatePhoneNumber(blank)
		assert.Equal(t, apperror.ErrCodeMissingField, apperror.CodeOf(err), blank)
	}
}
