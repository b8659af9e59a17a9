package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Sign(DownloadClaim{
		JobID:  "job-1",
		Path:   "substitutions_20260302.pdf",
		Format: "pdf",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	claim, err := signer.Verify(token, false)
	require.NoError(t, err)
	require.Equal(t, "job-1", claim.JobID)
	require.Equal(t, "substitutions_20260302.pdf", claim.Path)
	require.Equal(t, "pdf", claim.Format)
	require.WithinDuration(t, expiresAt, claim.ExpiresAt, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Millisecond*10)
	token, _, err := signer.Sign(DownloadClaim{JobID: "job-1", Path: "salary_202603.csv", Format: "csv"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 20)

	_, err = signer.Verify(token, false)
	require.Error(t, err)

	claim, err := signer.Verify(token, true)
	require.NoError(t, err)
	require.Equal(t, "job-1", claim.JobID)
	require.Equal(t, "salary_202603.csv", claim.Path)
}

func TestSignedURLSignerTamperedToken(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Sign(DownloadClaim{JobID: "job-1", Path: "file.csv", Format: "csv"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	_, err = signer.Verify(forged, false)
	require.Error(t, err)
}

func TestSignedURLSignerWrongSecret(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Sign(DownloadClaim{JobID: "job-1", Path: "file.csv", Format: "csv"})
	require.NoError(t, err)

	other := NewSignedURLSigner("another-secret", time.Hour)
	_, err = other.Verify(token, false)
	require.Error(t, err)
}

func TestSignedURLSignerRequiresClaimFields(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	_, _, err := signer.Sign(DownloadClaim{JobID: "", Path: "file.csv"})
	require.Error(t, err)
	_, _, err = signer.Sign(DownloadClaim{JobID: "job-1", Path: ""})
	require.Error(t, err)
}
