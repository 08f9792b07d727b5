package payment

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestCipherSealOpenRoundtrip(t *testing.T) {
	c, err := NewCipher(testKey())
	require.NoError(t, err)

	card := CardDetails{
		Number:      "4242424242424242",
		Holder:      "ALICE EXAMPLE",
		ExpiryMonth: 12,
		ExpiryYear:  2030,
		CVC:         "123",
	}

	envelope, err := c.Seal(card)
	require.NoError(t, err)

	got, err := c.Open(envelope)
	require.NoError(t, err)
	assert.Equal(t, card, got)
}

func TestNewCipherRejectsBadKeys(t *testing.T) {
	_, err := NewCipher("not base64!!")
	assert.Error(t, err)

	short := base64.StdEncoding.EncodeToString([]byte("too short"))
	_, err = NewCipher(short)
	assert.Error(t, err)
}

func TestCipherOpenRejectsTamperedEnvelope(t *testing.T) {
	c, err := NewCipher(testKey())
	require.NoError(t, err)

	envelope, err := c.Seal(CardDetails{Number: "4242424242424242"})
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(envelope)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = c.Open(base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

func TestCipherOpenRejectsGarbage(t *testing.T) {
	c, err := NewCipher(testKey())
	require.NoError(t, err)

	_, err = c.Open("definitely not an envelope")
	assert.Error(t, err)

	_, err = c.Open(base64.StdEncoding.EncodeToString([]byte("x")))
	assert.Error(t, err)
}

func TestCardDetailsMasked(t *testing.T) {
	assert.Equal(t, "**** **** **** 4242", CardDetails{Number: "4242424242424242"}.Masked())
	assert.Equal(t, "****", CardDetails{Number: "42"}.Masked())
}

func TestBranchesValid(t *testing.T) {
	b := NewBranches([]string{"downtown", "Eastside"})

	assert.True(t, b.Valid("downtown"))
	assert.True(t, b.Valid(" DOWNTOWN "))
	assert.True(t, b.Valid("eastside"))
	assert.False(t, b.Valid("airport"))
	assert.False(t, b.Valid(""))
}
