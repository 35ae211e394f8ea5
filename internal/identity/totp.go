package identity

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
)

// totpPeriod is the RFC 6238 time step.
const totpPeriod = 30 * time.Second

var ErrEmptySecret = errors.New("identity: TOTP secret cannot be empty")

// GenerateCode produces the 6-digit TOTP code for the current time window.
// Two calls within the same 30-second window return the same code.
func GenerateCode(base32Secret string) (string, error) {
	return GenerateCodeAt(base32Secret, time.Now())
}

// GenerateCodeAt implements RFC 6238 with HMAC-SHA1: the counter is the number
// of 30-second steps since the Unix epoch, hashed as 8 big-endian bytes; the
// low nibble of the last hash byte picks a 4-byte window, read as an unsigned
// 31-bit integer, reduced modulo 1e6 and zero-padded.
func GenerateCodeAt(base32Secret string, t time.Time) (string, error) {
	secret := strings.ToUpper(strings.TrimSpace(base32Secret))
	if secret == "" {
		return "", ErrEmptySecret
	}

	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.TrimRight(secret, "="))
	if err != nil {
		return "", fmt.Errorf("identity: decode TOTP secret: %w", err)
	}

	counter := uint64(t.Unix() / int64(totpPeriod.Seconds()))

	var counterBytes [8]byte
	binary.BigEndian.PutUint64(counterBytes[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(counterBytes[:])
	hash := mac.Sum(nil)

	offset := hash[len(hash)-1] & 0xF
	truncated := binary.BigEndian.Uint32(hash[offset:offset+4]) & 0x7FFFFFFF

	return fmt.Sprintf("%06d", truncated%1_000_000), nil
}
