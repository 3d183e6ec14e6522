package pubgen

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubgen/internal/frontmatter"
)

func TestNewPost(t *testing.T) {
	fsys := afero.NewMemMapFs()
	site := testSite(t, fsys)

	path, err := site.NewPost(`Bird Flu: "H5N1" Update`, NewPostOptions{})
	require.NoError(t, err)
	require.Equal(t, filepath.Join("content", "posts", "bird-flu-h5n1-update.md"), path)

	raw, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	front, body, had, err := frontmatter.Split(raw)
	require.NoError(t, err)
	require.True(t, had)
	fields, err := frontmatter.Parse(front)
	require.NoError(t, err)

	require.Equal(t, "post", fields["type"])
	require.Equal(t, `Bird Flu: "H5N1" Update`, fields["title"])
	require.Equal(t, "2024-03-15", fields["date"])
	require.Equal(t, "ID Blog Team", fields["author"])
	require.Equal(t, "Breaking News", fields["category"])
	require.Equal(t, `Latest updates on Bird Flu: "H5N1" Update`, fields["description"])
	require.Equal(t, []any{"infectious-disease", "health", "news"}, fields["tags"])

	for _, section := range []string{"## Key Points", "## Impact", "## Background", "## Current Status",
		"## Expert Opinions", "## Prevention & Safety", "## References"} {
		require.Contains(t, string(body), section)
	}
	require.True(t, strings.HasPrefix(string(body), "\n# Bird Flu: \"H5N1\" Update\n"))
}

func TestNewPostRootDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	path, err := testSite(t, fsys).NewPost("Root Note", NewPostOptions{Root: true})
	require.NoError(t, err)
	require.Equal(t, filepath.Join("content", "root-note.md"), path)
}

func TestNewPostExisting(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"content/posts/flu.md": "mine"})

	path, err := testSite(t, fsys).NewPost("Flu", NewPostOptions{})
	require.ErrorIs(t, err, ErrPostExists)
	require.Equal(t, filepath.Join("content", "posts", "flu.md"), path)

	raw, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	require.Equal(t, "mine", string(raw), "existing file untouched")
}

func TestNewPostEmptySlug(t *testing.T) {
	_, err := testSite(t, afero.NewMemMapFs()).NewPost("?!", NewPostOptions{})
	require.ErrorIs(t, err, ErrEmptySlug)
}

func TestInit(t *testing.T) {
	fsys := afero.NewMemMapFs()
	site := testSite(t, fsys)

	written, err := site.Init(false)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		"site.config.json",
		".env.example",
		filepath.Join("content", "posts", "welcome.md"),
		filepath.Join("src", "templates", "post.html"),
		filepath.Join("src", "templates", "index.html"),
		filepath.Join("src", "templates", "tag.html"),
		filepath.Join("src", "templates", "404.html"),
		filepath.Join("src", "templates", "partials", "head.html"),
		filepath.Join("src", "templates", "partials", "nav.html"),
	}, written)

	cfg, err := LoadConfig(fsys, "site.config.json")
	require.NoError(t, err)
	require.Equal(t, "https://example.org", cfg.URL)
	require.Equal(t, "Test News", cfg.Name)
	require.Equal(t, site.Config.Dirs(), cfg.Dirs())
	require.Equal(t, "out", cfg.OutputDir)

	tmpl, err := afero.ReadFile(fsys, "src/templates/post.html")
	require.NoError(t, err)
	require.Contains(t, string(tmpl), "{{.Content}}", "html templates are copied verbatim")

	require.NoError(t, afero.WriteFile(fsys, "src/templates/post.html", []byte("custom"), 0o644))
	again, err := site.Init(false)
	require.NoError(t, err)
	require.Empty(t, again)
	tmpl, err = afero.ReadFile(fsys, "src/templates/post.html")
	require.NoError(t, err)
	require.Equal(t, "custom", string(tmpl))

	forced, err := site.Init(true)
	require.NoError(t, err)
	require.Len(t, forced, len(written))
}
