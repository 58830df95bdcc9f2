package gantt

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/leapstack-labs/leapgantt/internal/testutil"
	"github.com/leapstack-labs/leapgantt/internal/ui/features"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T, watch string, opts Options) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, watch)
	opts.Logger = testutil.NewTestLogger(t)
	return NewHandlers(fixture.Engine, fixture.SessionStore, fixture.Notifier, opts), fixture
}

// upload posts SampleCSV and returns the recorder holding the session cookie.
func upload(t *testing.T, h *Handlers, content string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Upload(rec, features.NewUploadRequest(t, "plan.csv", content))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	return rec
}

func get(h http.HandlerFunc, path string, session *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != nil {
		req = features.WithCookies(req, session)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

// tableRows counts the data rows of the rendered table.
func tableRows(t *testing.T, body string) [][]string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)

	var rows [][]string
	var walk func(n *html.Node, inBody bool)
	walk = func(n *html.Node, inBody bool) {
		if n.Type == html.ElementNode && n.Data == "tbody" {
			inBody = true
		}
		if inBody && n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for td := n.FirstChild; td != nil; td = td.NextSibling {
				if td.Type == html.ElementNode && td.Data == "td" {
					cells = append(cells, strings.TrimSpace(textOf(td)))
				}
			}
			rows = append(rows, cells)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inBody)
		}
	}
	walk(doc, false)
	return rows
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textOf(c))
	}
	return sb.String()
}

// =============================================================================
// GanttPage Tests - Full HTML page responses with server-rendered content
// =============================================================================

func TestGanttPage_Empty(t *testing.T) {
	h, _ := setupTestHandlers(t, "", Options{})

	rec := get(h.GanttPage, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>Project Gantt Chart - LeapGantt</title>",
		"data-init",
		"/updates",
		"ui-content",
		`action="/upload"`,
		"Upload a CSV file to see the chart.",
	} {
		assert.Contains(t, body, want, "response should contain %q", want)
	}
	assert.NotContains(t, body, "gantt-chart", "no chart without a schedule")
	assert.NotContains(t, body, `/reload`, "reload hook is dev only")
	assert.NotEmpty(t, rec.Result().Cookies(), "a session cookie is issued")
}

func TestGanttPage_Language(t *testing.T) {
	tests := []struct {
		name   string
		lang   string
		accept string
		want   string
	}{
		{"negotiated chinese", "auto", "zh-CN,zh;q=0.9,en;q=0.8", "项目进度甘特图"},
		{"negotiated english", "auto", "en-US", "Project Gantt Chart"},
		{"configured chinese wins", "zh", "en-US", "项目进度甘特图"},
		{"configured english wins", "en", "zh-TW", "Project Gantt Chart"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t, "", Options{Lang: tt.lang})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept-Language", tt.accept)
			rec := httptest.NewRecorder()

			h.GanttPage(rec, req)

			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestGanttPage_TitleAndDev(t *testing.T) {
	h, _ := setupTestHandlers(t, "", Options{Title: "Roadmap <2024>", IsDev: true})

	body := get(h.GanttPage, "/", nil).Body.String()

	assert.Contains(t, body, "<title>Roadmap &lt;2024&gt; - LeapGantt</title>")
	assert.Contains(t, body, `@get('/reload')`)
}

// =============================================================================
// Upload Tests
// =============================================================================

func TestUpload_ShowsChart(t *testing.T) {
	h, _ := setupTestHandlers(t, "", Options{})

	session := upload(t, h, features.SampleCSV)
	assert.Equal(t, "/", session.Header().Get("Location"))

	rec := get(h.GanttPage, "/", session)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	rows := tableRows(t, body)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "Design", "A", "2024-01-01", "2024-01-10", "Task"}, rows[0])
	assert.Equal(t, []string{"3", "Launch", "A", "2024-02-01", "2024-02-01", "Milestone"}, rows[2])

	assert.Contains(t, body, `id="gantt-chart"`)
	assert.Contains(t, body, `data-figure-url="/figure.json"`)
	assert.Contains(t, body, "31 days", "duration from 2024-01-01 to 2024-02-01")
	assert.Contains(t, body, "plan.csv")
	assert.Contains(t, body, `action="/reset"`)
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		opts     Options
		want     string
	}{
		{
			name:     "bad date",
			filename: "plan.csv",
			content:  "seq,step,resource,start,end,kind\n1,Design,A,2024-01-01,10/01/2024,Task\n",
			want:     "Error: line 2",
		},
		{
			name:     "missing columns",
			filename: "plan.csv",
			content:  "seq,step\n1,Design\n",
			want:     "missing required columns",
		},
		{
			name: "no file",
			want: "Error: no file selected",
		},
		{
			name:     "too large",
			filename: "plan.csv",
			content:  features.SampleCSV,
			opts:     Options{MaxUploadBytes: 16},
			want:     "Error: file is too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t, "", tt.opts)
			rec := httptest.NewRecorder()

			h.Upload(rec, features.NewUploadRequest(t, tt.filename, tt.content))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.Contains(t, rec.Body.String(), `role="alert"`)
		})
	}
}

func TestUpload_InvalidKeepsPreviousChart(t *testing.T) {
	h, _ := setupTestHandlers(t, "", Options{})
	session := upload(t, h, features.SampleCSV)

	req := features.WithCookies(features.NewUploadRequest(t, "bad.csv", "seq,step\n"), session)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, tableRows(t, rec.Body.String()), 3, "previous upload still shown")
}

func TestReset(t *testing.T) {
	h, _ := setupTestHandlers(t, "", Options{})
	session := upload(t, h, features.SampleCSV)

	req := features.WithCookies(httptest.NewRequest(http.MethodPost, "/reset", nil), session)
	rec := httptest.NewRecorder()
	h.Reset(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	body := get(h.GanttPage, "/", session).Body.String()
	assert.Empty(t, tableRows(t, body))
	assert.Contains(t, body, "Upload a CSV file to see the chart.")
}

// =============================================================================
// Figure and image endpoints
// =============================================================================

func TestFigure(t *testing.T) {
	h, _ := setupTestHandlers(t, "", Options{Title: "Roadmap"})

	assert.Equal(t, http.StatusNotFound, get(h.Figure, "/figure.json", nil).Code)

	session := upload(t, h, features.SampleCSV)
	rec := get(h.Figure, "/figure.json", session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var fig struct {
		Data []struct {
			Type string   `json:"type"`
			Name string   `json:"name"`
			Base []string `json:"base"`
		} `json:"data"`
		Layout struct {
			Height int `json:"height"`
			Title  struct {
				Text string `json:"text"`
			} `json:"title"`
		} `json:"layout"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fig))
	require.Len(t, fig.Data, 4)
	assert.Equal(t, "bar", fig.Data[0].Type)
	assert.Equal(t, []string{"2024-01-01"}, fig.Data[0].Base)
	assert.Equal(t, 600, fig.Layout.Height)
	assert.Equal(t, "Roadmap", fig.Layout.Title.Text)
}

func TestChartImage(t *testing.T) {
	h, _ := setupTestHandlers(t, "", Options{})

	assert.Equal(t, http.StatusNotFound, get(h.ChartImage("svg"), "/chart.svg", nil).Code)

	session := upload(t, h, features.SampleCSV)

	svg := get(h.ChartImage("svg"), "/chart.svg", session)
	require.Equal(t, http.StatusOK, svg.Code)
	assert.Equal(t, "image/svg+xml", svg.Header().Get("Content-Type"))
	assert.Contains(t, svg.Body.String(), "<svg")

	png := get(h.ChartImage("png"), "/chart.png", session)
	require.Equal(t, http.StatusOK, png.Code)
	assert.Equal(t, "image/png", png.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(png.Body.Bytes(), []byte("\x89PNG")))
}

func TestWatchFileFallback(t *testing.T) {
	h, _ := setupTestHandlers(t, features.SampleCSV, Options{})

	body := get(h.GanttPage, "/", nil).Body.String()
	assert.Len(t, tableRows(t, body), 3)
	assert.Equal(t, http.StatusOK, get(h.Figure, "/figure.json", nil).Code)
}

// =============================================================================
// GanttPageUpdates Tests - SSE endpoint for live updates only
// =============================================================================

func TestGanttPageUpdates_NoInitialState(t *testing.T) {
	h, _ := setupTestHandlers(t, "", Options{})

	req := features.RequestWithTimeout(httptest.NewRequest(http.MethodGet, "/updates", nil), 50*time.Millisecond)
	rec := httptest.NewRecorder()
	h.GanttPageUpdates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"), "should have no SSE events without a ping")
}

func TestGanttPageUpdates_SendsShellOnBroadcast(t *testing.T) {
	h, fixture := setupTestHandlers(t, features.SampleCSV, Options{})

	req := features.RequestWithTimeout(httptest.NewRequest(http.MethodGet, "/updates", nil), 300*time.Millisecond)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.GanttPageUpdates(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return fixture.Notifier.Listeners() == 1 }, time.Second, 5*time.Millisecond)
	fixture.Notifier.Broadcast()
	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1)
	assert.Contains(t, body, "app-shell")
	assert.Contains(t, body, "Design")
	assert.Contains(t, body, "leapgantt.refresh")
}

func TestGanttPageUpdates_UploadPingsOtherTabs(t *testing.T) {
	h, fixture := setupTestHandlers(t, "", Options{})
	session := upload(t, h, features.SampleCSV)

	req := features.WithCookies(httptest.NewRequest(http.MethodGet, "/updates", nil), session)
	req = features.RequestWithTimeout(req, 300*time.Millisecond)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.GanttPageUpdates(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return fixture.Notifier.Listeners() == 1 }, time.Second, 5*time.Millisecond)

	next := features.WithCookies(features.NewUploadRequest(t, "next.csv", strings.Replace(features.SampleCSV, "Design", "Discovery", 1)), session)
	h.Upload(httptest.NewRecorder(), next)
	<-done

	assert.Contains(t, rec.Body.String(), "Discovery")
}

func TestNegotiate(t *testing.T) {
	assert.Equal(t, "en", Negotiate("auto", "").Lang)
	assert.Equal(t, "en", Negotiate("auto", "fr-FR").Lang)
	assert.Equal(t, "zh", Negotiate("auto", "zh-Hans-CN").Lang)
	assert.Equal(t, "zh", Negotiate("auto", "fr;q=0.9, zh-TW;q=0.8").Lang)
	assert.Equal(t, "zh", Negotiate("zh", "en").Lang)
	assert.Equal(t, "en", Negotiate("en", "zh").Lang)
}
