package services

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"
)

const (
	OTPLength = 6
	OTPTTL    = 10 * time.Minute

	otpMin = 100000
	otpMax = 999999
)

// OTPCode is a six-digit verification code kept as fixed-width text so that
// comparisons are exact.
type OTPCode string

func (c OTPCode) String() string { return string(c) }

// ParseOTPCode accepts exactly six ASCII digits.
func ParseOTPCode(s string) (OTPCode, bool) {
	if len(s) != OTPLength {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", false
		}
	}
	return OTPCode(s), true
}

type OTPIssuer struct {
	ttl time.Duration
	now func() time.Time
}

func NewOTPIssuer() *OTPIssuer {
	return &OTPIssuer{ttl: OTPTTL, now: time.Now}
}

func (i *OTPIssuer) Issue() (OTPCode, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate code: %w", err)
	}
	code := OTPCode(fmt.Sprintf("%06d", n.Int64()+otpMin))
	return code, i.now().Add(i.ttl), nil
}

// ValidateOTP reports whether supplied matches the stored code and now is
// strictly before the stored expiry. Missing, mismatched and expired codes
// are indistinguishable to the caller.
func ValidateOTP(stored *string, expiresAt *time.Time, supplied OTPCode, now time.Time) bool {
	if stored == nil || expiresAt == nil {
		return false
	}
	match := subtle.ConstantTimeCompare([]byte(*stored), []byte(supplied)) == 1
	return match && now.Before(*expiresAt)
}
