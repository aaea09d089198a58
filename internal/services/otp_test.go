package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPIssuer_Issue(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer := &OTPIssuer{ttl: OTPTTL, now: func() time.Time { return now }}

	code, expiresAt, err := issuer.Issue()

	require.NoError(t, err)
	parsed, ok := ParseOTPCode(code.String())
	assert.True(t, ok)
	assert.Equal(t, code, parsed)
	assert.NotEqual(t, byte('0'), code[0])
	assert.Equal(t, now.Add(10*time.Minute), expiresAt)
}

func TestOTPIssuer_IssueVaries(t *testing.T) {
	issuer := NewOTPIssuer()
	seen := make(map[OTPCode]struct{})

	for range 50 {
		code, _, err := issuer.Issue()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 1)
}

func TestParseOTPCode(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		ok    bool
	}{
		{"six digits", "482913", true},
		{"leading zero", "012345", true},
		{"too short", "12345", false},
		{"too long", "1234567", false},
		{"letters", "12a456", false},
		{"signed", "+12345", false},
		{"spaces", " 12345", false},
		{"empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := ParseOTPCode(tc.input)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestValidateOTP(t *testing.T) {
	now := time.Now()
	stored := "482913"
	future := now.Add(time.Minute)
	past := now.Add(-time.Second)

	assert.True(t, ValidateOTP(&stored, &future, "482913", now))
	assert.False(t, ValidateOTP(&stored, &future, "482914", now), "wrong code")
	assert.False(t, ValidateOTP(&stored, &past, "482913", now), "expired")
	assert.False(t, ValidateOTP(&stored, &now, "482913", now), "expiry instant is exclusive")
	assert.False(t, ValidateOTP(nil, nil, "482913", now), "no pending code")
	assert.False(t, ValidateOTP(&stored, nil, "482913", now), "half-set pair")
}
