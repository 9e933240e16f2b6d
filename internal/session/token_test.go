package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig() *TokenConfig {
	return &TokenConfig{Secret: []byte("test-secret"), Issuer: "roomrelay", TTL: time.Hour}
}

func TestIssueAndParse(t *testing.T) {
	cfg := testConfig()

	token, err := IssueToken(cfg, "sid-123")
	require.NoError(t, err)

	sid, err := ParseToken(cfg, token)
	require.NoError(t, err)
	require.Equal(t, "sid-123", sid)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken(testConfig(), "sid-123")
	require.NoError(t, err)

	other := testConfig()
	other.Secret = []byte("other")
	_, err = ParseToken(other, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	token, err := IssueToken(testConfig(), "sid-123")
	require.NoError(t, err)

	other := testConfig()
	other.Issuer = "someone-else"
	_, err = ParseToken(other, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpiry(t *testing.T) {
	cfg := testConfig()
	cfg.TTL = -time.Minute

	token, err := IssueToken(cfg, "sid-123")
	require.NoError(t, err)
	// negative TTL means no expiry claim at all
	_, err = ParseToken(cfg, token)
	require.NoError(t, err)

	cfg.TTL = time.Nanosecond
	token, err = IssueToken(cfg, "sid-123")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	_, err = ParseToken(cfg, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseToken(testConfig(), "not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSecret(t *testing.T) {
	a, err := NewSecret()
	require.NoError(t, err)
	b, err := NewSecret()
	require.NoError(t, err)
	require.Len(t, a, 32)
	require.NotEqual(t, a, b)
}
