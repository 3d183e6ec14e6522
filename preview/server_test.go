package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubgen"
	"github.com/eringen/pubgen/views"
)

func page(format string, args ...any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	})
}

var testViews = views.ViewFuncs{
	Post:     func(p views.PostPage) templ.Component { return page("<h1>%s</h1>", p.Title) },
	Index:    func(p views.IndexPage) templ.Component { return page("index %d posts", len(p.Posts)) },
	Tag:      func(p views.TagPage) templ.Component { return page("tag %s", p.Tag) },
	NotFound: func(p views.NotFoundPage) templ.Component { return page("custom not found") },
}

func newTestServer(t *testing.T) (*Server, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "content/posts/flu.md", []byte("---\ntitle: Flu\ntags: [flu]\n---\nbody\n"), 0o644))
	cfg := pubgen.SiteConfig{ContentDir: "content", OutputDir: "out"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	site := pubgen.New(cfg, fsys, pubgen.WithLogger(logger), pubgen.WithViews(testViews))
	return New(site, Options{Registry: prometheus.NewRegistry()}), fsys
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func TestServerServesBuiltSite(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, s.Rebuild(context.Background()))

	tests := []struct {
		target string
		code   int
		body   string
	}{
		{"/", http.StatusOK, "index 1 posts"},
		{"/index.html", http.StatusOK, "index 1 posts"},
		{"/posts/flu.html", http.StatusOK, "<h1>Flu</h1>"},
		{"/tags/flu.html", http.StatusOK, "tag flu"},
		{"/feed.xml", http.StatusOK, "<rss"},
		{"/missing.html", http.StatusNotFound, "custom not found"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, s, tt.target)
			require.Equal(t, tt.code, rec.Code)
			require.Contains(t, rec.Body.String(), tt.body)
			require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestServerNotFoundBeforeFirstBuild(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/posts/flu.html")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotContains(t, rec.Body.String(), "custom not found")
}

func TestServerStatus(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, s.Rebuild(context.Background()))

	var st Status
	rec := get(t, s, "/_status")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.True(t, st.OK)
	require.Equal(t, 1, st.Posts)
	require.NotEmpty(t, st.BuildID)

	// No views and no templates on disk.
	s.site.Views = nil
	require.Error(t, s.Rebuild(context.Background()))

	st = s.Status()
	require.False(t, st.OK)
	require.Contains(t, st.Error, "pubgen: templates:")
}

func TestServerMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, s.Rebuild(context.Background()))
	get(t, s, "/")

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "pubgen_preview_requests_total"), rec.Body.String())
}
