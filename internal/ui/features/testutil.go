// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapgantt/internal/engine"
	"github.com/leapstack-labs/leapgantt/internal/testutil"
	"github.com/leapstack-labs/leapgantt/internal/ui/notifier"
)

// SampleCSV is a small valid schedule with two resources.
const SampleCSV = `seq,step,resource,start,end,kind
1,Design,A,01/01/2024,10/01/2024,Task
2,Build,B,10/01/2024,31/01/2024,Task
3,Launch,A,01/02/2024,01/02/2024,Milestone
`

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Engine       *engine.Engine
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates an engine with an in-memory upload store.
// When watch is not empty it is written to a temp file used as the watched schedule.
func SetupTestFixture(t *testing.T, watch string) *TestFixture {
	t.Helper()

	cfg := engine.Config{Logger: testutil.NewTestLogger(t)}
	if watch != "" {
		path := filepath.Join(t.TempDir(), "plan.csv")
		require.NoError(t, os.WriteFile(path, []byte(watch), 0600))
		cfg.WatchFile = path
	}

	eng, err := engine.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = eng.Close()
	})

	return &TestFixture{
		Engine:       eng,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
	}
}

// NewUploadRequest builds a multipart POST /upload request.
func NewUploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// WithCookies copies the cookies set by a previous response onto req.
func WithCookies(req *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	// Note: caller should handle cleanup, but for tests the timeout will trigger
	_ = cancel
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
