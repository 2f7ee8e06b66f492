package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken is returned for malformed or tampered tokens.
	ErrInvalidToken = errors.New("invalid download token")
	// ErrExpiredToken is returned once the token TTL has elapsed.
	ErrExpiredToken = errors.New("download token expired")
)

// Grant is the verified content of a download token.
type Grant struct {
	Subject   string
	Name      string
	ExpiresAt time.Time
}

// Signer issues and verifies HMAC-signed download tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner constructs a signer with the provided secret and TTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a token granting access to name on behalf of subject.
func (s *Signer) Issue(subject, name string) (string, time.Time, error) {
	if subject == "" || name == "" {
		return "", time.Time{}, fmt.Errorf("subject and name required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	parts := []string{
		base64.RawURLEncoding.EncodeToString([]byte(subject)),
		base64.RawURLEncoding.EncodeToString([]byte(name)),
		strconv.FormatInt(expiresAt.Unix(), 10),
	}
	body := strings.Join(parts, ".")
	return body + "." + s.sign(body), expiresAt, nil
}

// Verify checks the token signature and expiry.
func (s *Signer) Verify(token string) (Grant, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return Grant{}, ErrInvalidToken
	}
	body := strings.Join(parts[:3], ".")
	if !hmac.Equal([]byte(s.sign(body)), []byte(parts[3])) {
		return Grant{}, ErrInvalidToken
	}

	subject, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Grant{}, ErrInvalidToken
	}
	name, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Grant{}, ErrInvalidToken
	}
	exp, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Grant{}, ErrInvalidToken
	}

	grant := Grant{Subject: string(subject), Name: string(name), ExpiresAt: time.Unix(exp, 0)}
	if s.now().After(grant.ExpiresAt) {
		return Grant{}, ErrExpiredToken
	}
	return grant, nil
}

func (s *Signer) sign(body string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}
