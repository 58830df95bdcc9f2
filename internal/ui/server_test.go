package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapgantt/internal/engine"
	"github.com/leapstack-labs/leapgantt/internal/testutil"
	"github.com/leapstack-labs/leapgantt/internal/ui/features"
)

const plan = "seq,step,resource,start,end,kind\n1,Design,A,01/01/2024,10/01/2024,Task\n"

func newTestServer(t *testing.T, watch string) *Server {
	t.Helper()
	return newTestServerWithSecret(t, watch, "test-secret-key-32-bytes-long!!")
}

func newTestServerWithSecret(t *testing.T, watch, secret string) *Server {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	eng, err := engine.New(engine.Config{WatchFile: watch, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	return NewServer(Config{
		Engine:        eng,
		SessionSecret: secret,
		Logger:        logger,
	})
}

func TestServer_Handler(t *testing.T) {
	s := newTestServer(t, "")
	h, err := s.Handler()
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	page, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer func() { _ = page.Body.Close() }()
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.Header.Get("Content-Type"), "text/html")
}

func TestSessionKey(t *testing.T) {
	logger := testutil.NewTestLogger(t)
	assert.Equal(t, []byte("configured"), sessionKey("configured", logger))

	a, b := sessionKey("", logger), sessionKey("", logger)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestServer_EmptySecretKeepsSession(t *testing.T) {
	h, err := newTestServerWithSecret(t, "", "").Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, features.NewUploadRequest(t, "plan.csv", features.SampleCSV))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.NotEmpty(t, rec.Result().Cookies(), "upload must set a session cookie")

	page := httptest.NewRecorder()
	h.ServeHTTP(page, features.WithCookies(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Design")
	assert.Contains(t, page.Body.String(), "plan.csv")
}

func TestServer_WatchFileBroadcasts(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plan.csv")
	require.NoError(t, os.WriteFile(file, []byte(plan), 0o600))

	s := newTestServer(t, file)
	ch := s.Notifier().Subscribe("")
	defer s.Notifier().Unsubscribe(ch)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.watchFile(ctx, s.engine.WatchFile()) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte(plan), 0o600))
	select {
	case <-ch:
		t.Fatal("unexpected broadcast for another file")
	case <-time.After(3 * debounce):
	}

	require.NoError(t, os.WriteFile(file, []byte(plan+"2,Build,B,10/01/2024,20/01/2024,Task\n"), 0o600))
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast after the watched file changed")
	}
}
