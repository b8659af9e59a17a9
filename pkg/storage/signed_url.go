package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DownloadClaim names the export file a signed token grants access to.
type DownloadClaim struct {
	JobID     string
	Path      string
	Format    string
	ExpiresAt time.Time
}

// SignedURLSigner mints and verifies HMAC tokens for export downloads, so
// generated files can be fetched without an authenticated session.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl}
}

// Sign encodes the claim into a URL-safe token expiring after the configured
// TTL.
func (s *SignedURLSigner) Sign(claim DownloadClaim) (string, time.Time, error) {
	if claim.JobID == "" || claim.Path == "" {
		return "", time.Time{}, errors.New("job id and path required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	body := base64.RawURLEncoding.EncodeToString([]byte(strings.Join([]string{claim.JobID, claim.Format, claim.Path}, "\n")))
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	token := body + "." + exp + "." + s.signature(body, exp)
	return token, expiresAt, nil
}

// Verify checks signature and expiry and returns the embedded claim. Cleanup
// passes allowExpired to resolve files whose tokens have already lapsed.
func (s *SignedURLSigner) Verify(token string, allowExpired bool) (DownloadClaim, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return DownloadClaim{}, errors.New("malformed token")
	}
	body, exp, sig := parts[0], parts[1], parts[2]
	if !hmac.Equal([]byte(s.signature(body, exp)), []byte(sig)) {
		return DownloadClaim{}, errors.New("invalid token signature")
	}
	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return DownloadClaim{}, errors.New("invalid token expiry")
	}
	expiresAt := time.Unix(expUnix, 0)
	if !allowExpired && time.Now().After(expiresAt) {
		return DownloadClaim{}, errors.New("token expired")
	}
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return DownloadClaim{}, fmt.Errorf("decode token body: %w", err)
	}
	fields := strings.SplitN(string(raw), "\n", 3)
	if len(fields) != 3 {
		return DownloadClaim{}, errors.New("malformed token body")
	}
	return DownloadClaim{
		JobID:     fields[0],
		Format:    fields[1],
		Path:      fields[2],
		ExpiresAt: expiresAt,
	}, nil
}

func (s *SignedURLSigner) signature(body, exp string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(body))
	_, _ = mac.Write([]byte{'.'})
	_, _ = mac.Write([]byte(exp))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
