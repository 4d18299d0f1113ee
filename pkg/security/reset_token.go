package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ResetTokenTimeout is how long a password reset link stays usable
const ResetTokenTimeout = 3 * 24 * time.Hour

const resetTokenSalt = "notes-api.password-reset"

var ErrInvalidUID = errors.New("invalid uid")

// IssueResetToken derives a reset token from the user's current password
// hash. Nothing is persisted: once the password changes the hash changes
// and every token issued before stops validating.
func (s *TokenService) IssueResetToken(userID, passwordHash string) string {
	return s.makeResetToken(userID, passwordHash, s.Now().Unix())
}

// ValidateResetToken fails closed: malformed input just returns false
func (s *TokenService) ValidateResetToken(userID, passwordHash, token string) bool {
	tsPart, _, ok := strings.Cut(token, "-")
	if !ok || userID == "" {
		return false
	}

	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil || ts < 0 {
		return false
	}

	expected := s.makeResetToken(userID, passwordHash, ts)
	if !hmac.Equal([]byte(expected), []byte(token)) {
		return false
	}

	age := s.Now().Sub(time.Unix(ts, 0))

	return age <= ResetTokenTimeout
}

func (s *TokenService) makeResetToken(userID, passwordHash string, ts int64) string {
	tsPart := strconv.FormatInt(ts, 36)

	mac := hmac.New(sha256.New, append([]byte(resetTokenSalt), s.secret...))
	mac.Write([]byte(userID))
	mac.Write([]byte{0})
	mac.Write([]byte(passwordHash))
	mac.Write([]byte{0})
	mac.Write([]byte(tsPart))

	return tsPart + "-" + hex.EncodeToString(mac.Sum(nil))
}

// EncodeUID encodes a user ID for use in a reset link
func EncodeUID(userID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

func DecodeUID(uidb64 string) (string, error) {
	// Padded input is accepted too
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(uidb64, "="))
	if err != nil || len(b) == 0 {
		return "", ErrInvalidUID
	}

	return string(b), nil
}
