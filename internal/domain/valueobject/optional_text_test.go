package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptionalText_BlankIsAbsent(t *testing.T) {
	for _, raw := range []string{"", " ", "\t\n", "　"} {
		assert.False(t, NewOptionalText(raw).IsPresent(), "%q", raw)
	}

	v := NewOptionalText("  0912345678 ")
	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, "0912345678", got)
}

func TestOptionalText_EqualTreatsBlankAsAbsent(t *testing.T) {
	assert.True(t, NewOptionalText(" ").Equal(Absent()))
	assert.True(t, FromPtr(nil).Equal(NewOptionalText("")))
	assert.False(t, NewOptionalText("a").Equal(Absent()))
}

func TestOptionalText_Or(t *testing.T) {
	assert.Equal(t, "override", NewOptionalText("override").Or(NewOptionalText("original")).String())
	assert.Equal(t, "original", Absent().Or(NewOptionalText("original")).String())
}

func TestOptionalText_Scan(t *testing.T) {
	var v OptionalText

	require.NoError(t, v.Scan(nil))
	assert.False(t, v.IsPresent())

	require.NoError(t, v.Scan([]byte("  ")))
	assert.False(t, v.IsPresent())

	require.NoError(t, v.Scan("信義路"))
	assert.Equal(t, "信義路", v.String())

	assert.Error(t, v.Scan(42))
}

func TestOptionalText_Value(t *testing.T) {
	value, err := Absent().Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = NewOptionalText("x").Value()
	require.NoError(t, err)
	assert.Equal(t, "x", value)
}

func TestOptionalText_JSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A OptionalText `json:"a"`
		B OptionalText `json:"b"`
	}{A: NewOptionalText("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":null}`, string(out))

	var in struct {
		A OptionalText `json:"a"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"   "}`), &in))
	assert.False(t, in.A.IsPresent())
}

func TestNewVerificationType(t *testing.T) {
	got, err := NewVerificationType("phone")
	require.NoError(t, err)
	assert.Equal(t, VerificationTypePhone, got)

	_, err = NewVerificationType("email")
	assert.Error(t, err)
}
