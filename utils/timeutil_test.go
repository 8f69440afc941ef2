package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISTTimestampRoundTrip(t *testing.T) {
	original := time.Date(2025, 3, 1, 4, 30, 0, 0, time.UTC)

	stamp := ISTTimestamp(original)
	assert.Equal(t, "2025-03-01 10:00:00", stamp)

	parsed, err := ParseISTTimestamp(stamp)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(original))
}

func TestParseISTTimestampRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "yesterday", "2025-03-01T10:00:00Z"} {
		_, err := ParseISTTimestamp(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestGenerateSecureOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		otp := GenerateSecureOTP()
		require.Len(t, otp, 6)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[otp] = true
	}
	// 20 draws from a million values colliding down to one would mean the
	// generator is broken
	assert.Greater(t, len(seen), 1)
}

func TestHashOTPIsDeterministic(t *testing.T) {
	assert.Equal(t, HashOTP("123456"), HashOTP("123456"))
	assert.NotEqual(t, HashOTP("123456"), HashOTP("654321"))
}
