package permits_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aussiebroadwan/permits/pkg/apperr"
	"github.com/aussiebroadwan/permits/pkg/idx"
	"github.com/aussiebroadwan/permits/pkg/permitsdk"
	"github.com/stretchr/testify/require"
)

func TestDocumentFlow(t *testing.T) {
	baseURL := startService(t, nil)
	ctx := context.Background()
	coord := login(t, baseURL, "coord@example.com")
	permitID := idx.New().String()

	doc, err := coord.UploadDocument(ctx, permitsdk.UploadRequest{
		FileName:    "inspection.txt",
		ContentType: "text/plain",
		Content:     strings.NewReader("passed"),
		PermitID:    permitID,
		Category:    "INSPECTION_REPORT",
	})
	require.NoError(t, err)
	require.Equal(t, int64(len("passed")), doc.SizeBytes)

	docs, err := coord.ListDocuments(ctx, permitID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	rc, contentType, err := coord.DownloadDocument(ctx, doc.ID)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "text/plain", contentType)
	require.Equal(t, "passed", string(body))

	require.NoError(t, coord.DeleteDocument(ctx, doc.ID))

	admin := login(t, baseURL, "admin@example.com")
	events, err := admin.ListAuditEvents(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, events)
}

func TestSessionAndCSRFRequired(t *testing.T) {
	baseURL := startService(t, nil)
	ctx := context.Background()
	coord := login(t, baseURL, "coord@example.com")

	anon, err := permitsdk.NewClient(baseURL)
	require.NoError(t, err)
	anon.SetCSRFToken(coord.CSRFToken())
	_, err = anon.UploadDocument(ctx, permitsdk.UploadRequest{
		FileName: "a.txt", ContentType: "text/plain", Content: strings.NewReader("x"),
	})
	requireStatus(t, err, http.StatusUnauthorized)

	coord.SetCSRFToken("00:00")
	_, err = coord.UploadDocument(ctx, permitsdk.UploadRequest{
		FileName: "a.txt", ContentType: "text/plain", Content: strings.NewReader("x"),
	})
	requireStatus(t, err, http.StatusForbidden)
}

func TestHealthAndLiveness(t *testing.T) {
	baseURL := startService(t, nil)
	client, err := permitsdk.NewClient(baseURL)
	require.NoError(t, err)

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "healthy", health.Status)

	live, err := client.Liveness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
}

// TestLoginRateLimitSharedAcrossReplicas runs two replicas against one
// Redis and checks that failed logins on either count towards one budget.
func TestLoginRateLimitSharedAcrossReplicas(t *testing.T) {
	nw := startRedis(t)
	env := map[string]string{"RATE_LIMIT_REDIS_ADDR": "redis:6379"}
	replicas := []string{startService(t, env, nw), startService(t, env, nw)}
	ctx := context.Background()

	var (
		statuses []int
		lastErr  error
	)
	for i := range 10 {
		client, err := permitsdk.NewClient(replicas[i%2])
		require.NoError(t, err)
		_, lastErr = client.Login(ctx, "coord@example.com", "wrong-password")
		statuses = append(statuses, statusOf(t, lastErr))
	}

	for i, s := range statuses[:9] {
		require.Equal(t, http.StatusUnauthorized, s, "attempt %d", i+1)
	}
	require.Equal(t, http.StatusTooManyRequests, statuses[9])
	require.ErrorIs(t, lastErr, apperr.ErrRateLimited)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var e *apperr.Error
	require.True(t, errors.As(err, &e), "expected API error, got %v", err)
	return e.Status
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Equal(t, status, statusOf(t, err))
}
