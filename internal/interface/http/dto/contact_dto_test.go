package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateContactRequest_DistinguishesAbsentFromNull(t *testing.T) {
	var req UpdateContactRequest
	require.NoError(t, json.Unmarshal([]byte(`{"address":"新地址","mobilePhone":null,"sessionId":"abc"}`), &req))

	in := req.ToInput("000001")

	require.NotNil(t, in.Address)
	assert.Equal(t, "新地址", *in.Address)
	assert.Nil(t, in.HomePhone, "отсутствующий ключ не передаётся")
	require.NotNil(t, in.MobilePhone, "null означает очистку")
	assert.Equal(t, "", *in.MobilePhone)
	assert.Equal(t, "000001", in.ShareholderCode)
	assert.Equal(t, "abc", in.SessionID)
}

func TestUpdateContactRequest_RejectsNonString(t *testing.T) {
	var req UpdateContactRequest
	assert.Error(t, json.Unmarshal([]byte(`{"homePhone":123}`), &req))
}
