package helpers

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// KeyPasswordResetOTP is the Redis key holding the reset code for an email.
// Emails are unique case-sensitively, so the key keeps the exact address.
func KeyPasswordResetOTP(email string) string {
	return "pwd:reset:otp:" + email
}

// KeyOAuthState is the Redis key for a pending OAuth2 authorization state
func KeyOAuthState(state string) string {
	return "oauth:state:" + state
}

var otpMax = big.NewInt(1000000)

// GenOTPCode generates a secure random 6-digit OTP code as a zero-padded string
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// OTPEqual compares two codes in constant time
func OTPEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
