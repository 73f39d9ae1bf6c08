package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken_RoundTrip(t *testing.T) {
	createdAt := time.Date(2024, 3, 15, 10, 30, 45, 123456789, time.UTC)
	id := "8b9f2f3a-1c2d-4e5f-9a0b-1c2d3e4f5a6b"

	token := EncodeToken(createdAt, id)

	gotTime, gotID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, gotTime.Equal(createdAt), "nanosecond precision must survive the round trip")
	assert.Equal(t, id, gotID)
}

func TestDecodeToken_IDContainingSeparator(t *testing.T) {
	createdAt := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	token := EncodeToken(createdAt, "id|with|pipes")

	_, gotID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "id|with|pipes", gotID)
}

func TestDecodeToken_InvalidBase64(t *testing.T) {
	_, _, err := DecodeToken("not-base64!!!")
	assert.Error(t, err)
}

func TestDecodeToken_MissingSeparator(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("no-separator-here"))

	_, _, err := DecodeToken(token)
	assert.Error(t, err)
}

func TestDecodeToken_BadTimestamp(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("yesterday|some-id"))

	_, _, err := DecodeToken(token)
	assert.Error(t, err)
}
