// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// codeKeyInfo binds the derived key to its single purpose.
const codeKeyInfo = "yamdb/confirmation-code/v1"

var (
	// ErrCodeMalformed is returned when a code cannot be parsed at all.
	ErrCodeMalformed = errors.New("sec: malformed confirmation code")

	// ErrCodeMismatch is returned when the signature does not match the account state.
	ErrCodeMismatch = errors.New("sec: confirmation code does not match")

	// ErrCodeExpired is returned when the code is older than its lifetime.
	ErrCodeExpired = errors.New("sec: confirmation code expired")
)

// CodeSubject is the account state a confirmation code is bound to.
//
// Any change to LastLogin (which is stamped when a code is redeemed) invalidates
// every code issued before it.
type CodeSubject struct {
	UserID    int64
	Email     string
	LastLogin *time.Time
}

// CodeSigner issues and verifies stateless confirmation codes.
//
// A code has the form "<issued-at base36>-<hex hmac>" where the HMAC-SHA256
// covers the subject and the issue timestamp.
type CodeSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodeSigner derives the signing key from secret with HKDF-SHA256.
func NewCodeSigner(secret string, ttl time.Duration) (*CodeSigner, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: confirmation code secret is empty")
	}

	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(codeKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("sec: failed to derive confirmation code key: %w", err)
	}

	return &CodeSigner{key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the signer's time source. It is meant for tests.
func (signer *CodeSigner) WithClock(now func() time.Time) *CodeSigner {
	signer.now = now
	return signer
}

// TTL returns the lifetime of issued codes.
func (signer *CodeSigner) TTL() time.Duration {
	return signer.ttl
}

// Issue returns a fresh code for the subject.
func (signer *CodeSigner) Issue(subject CodeSubject) string {
	issuedAt := signer.now().Unix()
	return strconv.FormatInt(issuedAt, 36) + "-" + signer.sign(subject, issuedAt)
}

// Verify checks the code against the subject and returns the moment it expires.
func (signer *CodeSigner) Verify(subject CodeSubject, code string) (time.Time, error) {
	stamp, signature, found := strings.Cut(code, "-")
	if !found || stamp == "" || signature == "" {
		return time.Time{}, ErrCodeMalformed
	}

	issuedAt, err := strconv.ParseInt(stamp, 36, 64)
	if err != nil {
		return time.Time{}, ErrCodeMalformed
	}

	expected := signer.sign(subject, issuedAt)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return time.Time{}, ErrCodeMismatch
	}

	expiresAt := time.Unix(issuedAt, 0).Add(signer.ttl)
	if !signer.now().Before(expiresAt) {
		return time.Time{}, ErrCodeExpired
	}

	return expiresAt, nil
}

func (signer *CodeSigner) sign(subject CodeSubject, issuedAt int64) string {
	lastLogin := ""
	if subject.LastLogin != nil {
		lastLogin = strconv.FormatInt(subject.LastLogin.UnixMicro(), 10)
	}

	mac := hmac.New(sha256.New, signer.key)
	fmt.Fprintf(mac, "%d|%s|%s|%d", subject.UserID, subject.Email, lastLogin, issuedAt)
	return hex.EncodeToString(mac.Sum(nil))
}
