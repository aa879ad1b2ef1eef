package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushRequest struct {
	method string
	path   string
	body   string
}

// fakePushGateway records pushes and answers with status.
func fakePushGateway(t *testing.T, status int) (*httptest.Server, func() []pushRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []pushRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, pushRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []pushRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]pushRequest(nil), reqs...)
	}
}

func TestCreate_PushesSubmissionMetrics(t *testing.T) {
	setupCreate(t, false)
	srv, pushes := fakePushGateway(t, http.StatusOK)

	err := Create(context.Background(), CreateOptions{
		Name: "nightly", Schedule: "@hourly", Image: "busybox", PushGateway: srv.URL,
	})
	require.NoError(t, err)

	reqs := pushes()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].method)
	assert.Equal(t, "/metrics/job/"+metricsJob, reqs[0].path)
	assert.Contains(t, reqs[0].body, "crontab_form_submissions_total")
	assert.Contains(t, reqs[0].body, "crontab_form_create_duration_seconds")
}

func TestCreate_PushesAfterFailedSubmission(t *testing.T) {
	setupCreate(t, false)
	srv, pushes := fakePushGateway(t, http.StatusOK)
	t.Setenv("CRONTAB_PUSHGATEWAY_URL", srv.URL)

	err := Create(context.Background(), CreateOptions{Name: "nightly", Schedule: "not a schedule", Image: "busybox"})
	require.Error(t, err)

	require.Len(t, pushes(), 1)
}

func TestCreate_PushFailureIsNotFatal(t *testing.T) {
	cluster, _ := setupCreate(t, false)
	srv, pushes := fakePushGateway(t, http.StatusInternalServerError)

	err := Create(context.Background(), CreateOptions{
		Name: "nightly", Schedule: "@hourly", Image: "busybox", PushGateway: srv.URL,
	})
	require.NoError(t, err)
	assert.Len(t, cluster.created, 1)
	assert.Len(t, pushes(), 1)
}

func TestCreate_NoPushGatewayConfigured(t *testing.T) {
	setupCreate(t, false)
	_, pushes := fakePushGateway(t, http.StatusOK)

	require.NoError(t, Create(context.Background(), CreateOptions{Name: "nightly", Schedule: "@hourly", Image: "busybox"}))
	assert.Empty(t, pushes())
}
