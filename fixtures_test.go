package pubgen

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFiles(t *testing.T, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(content), 0o644))
	}
}

// testPost builds a post in the posts dir with a parsed date ("" for undated).
func testPost(slug, date string, tags ...string) Post {
	p := Post{
		Title:     slug,
		Date:      date,
		Slug:      slug,
		Directory: DirPosts,
		Href:      CanonicalHref(DirPosts, slug),
		Tags:      tags,
	}
	if t, ok := ParseDate(date); ok {
		p.Published = t
	}
	return p
}

func slugs(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}
