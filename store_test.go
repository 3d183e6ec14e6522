package pubgen

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenIndex(filepath.Join(t.TempDir(), "data", "index.db"))
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenIndex(t *testing.T) {
	s := setupTestStore(t)
	if s == nil || s.db == nil {
		t.Fatal("store should be open")
	}
	_, err := s.LastBuild()
	require.ErrorIs(t, err, ErrNoBuild)
}

func TestSaveCorpusAndList(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	flu := testPost("flu", "2024-02-01", "flu", "health")
	flu.Title = "Flu season"
	flu.Fingerprint = "abc"
	rsv := testPost("rsv", "2024-03-01", "health")
	undated := testPost("undated", "someday", "flu")
	builtAt := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveCorpus(ctx, "build-1", []Post{flu, rsv, undated}, builtAt))

	posts, err := s.ListPosts("")
	require.NoError(t, err)
	require.Len(t, posts, 3)
	require.Equal(t, "rsv", posts[0].Slug)
	require.Equal(t, "flu", posts[1].Slug)
	require.Equal(t, "undated", posts[2].Slug)
	require.True(t, posts[2].Published.IsZero())

	got := posts[1]
	require.Equal(t, "Flu season", got.Title)
	require.Equal(t, "2024-02-01", got.Date)
	require.Equal(t, "posts/flu.html", got.Href)
	require.Equal(t, "abc", got.Fingerprint)
	require.Equal(t, []string{"flu", "health"}, got.Tags)
	require.True(t, got.Published.Equal(flu.Published))

	tagged, err := s.ListPosts("flu")
	require.NoError(t, err)
	require.Len(t, tagged, 2)
	require.Equal(t, "flu", tagged[0].Slug)

	none, err := s.ListPosts("Flu")
	require.NoError(t, err)
	require.Empty(t, none, "tags are case-sensitive")

	tags, err := s.ListTags()
	require.NoError(t, err)
	require.Equal(t, []TagCount{{Tag: "flu", Posts: 2}, {Tag: "health", Posts: 2}}, tags)

	build, err := s.LastBuild()
	require.NoError(t, err)
	require.Equal(t, BuildRecord{ID: "build-1", BuiltAt: builtAt, Posts: 3}, build)
}

func TestSaveCorpusReplacesPreviousBuild(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCorpus(ctx, "one", []Post{testPost("a", "2024-01-01", "x"), testPost("b", "2024-01-02")}, time.Unix(100, 0)))
	require.NoError(t, s.SaveCorpus(ctx, "two", []Post{testPost("c", "2024-01-03", "y")}, time.Unix(200, 0)))

	posts, err := s.ListPosts("")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "c", posts[0].Slug)

	tags, err := s.ListTags()
	require.NoError(t, err)
	require.Equal(t, []TagCount{{Tag: "y", Posts: 1}}, tags)

	build, err := s.LastBuild()
	require.NoError(t, err)
	require.Equal(t, "two", build.ID)
}

func TestSaveCorpusDuplicateTagsInPost(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.SaveCorpus(context.Background(), "b", []Post{testPost("a", "2024-01-01", "x", "x")}, time.Now()))

	tags, err := s.ListTags()
	require.NoError(t, err)
	require.Equal(t, []TagCount{{Tag: "x", Posts: 1}}, tags)
}

func TestFormatTags(t *testing.T) {
	if got := FormatTags(nil); got != "-" {
		t.Errorf("FormatTags(nil) = %q, want %q", got, "-")
	}
	if got := FormatTags([]string{"a", "b"}); got != "a,b" {
		t.Errorf("FormatTags = %q", got)
	}
}
