package pubgen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func numberedPosts(n int) []Post {
	posts := make([]Post, n)
	for i := range posts {
		posts[i] = testPost(fmt.Sprintf("post-%02d", i), fmt.Sprintf("2024-01-%02d", 28-i))
	}
	return posts
}

func TestTotalPages(t *testing.T) {
	tests := []struct{ n, size, want int }{
		{0, 6, 1},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{13, 6, 3},
		{13, 0, 3},
		{12, -2, 2},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.n, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestPlanPagesThirteenPosts(t *testing.T) {
	pages := PlanPages(numberedPosts(13), 6, Layout{})
	require.Len(t, pages, 3)

	first, second, third := pages[0], pages[1], pages[2]

	require.Equal(t, "index.html", first.Path)
	require.Equal(t, 0, first.Depth)
	require.Equal(t, "", first.BasePath)
	require.Empty(t, first.PrevHref)
	require.Equal(t, "page/2.html", first.NextHref)
	require.Equal(t, "posts/post-00.html", first.Posts[0].Href)
	require.Len(t, first.Posts, 6)

	require.Equal(t, "page/2.html", second.Path)
	require.Equal(t, "../", second.BasePath)
	require.Equal(t, "index.html", second.PrevPath)
	require.Equal(t, "../index.html", second.PrevHref)
	require.Equal(t, "../page/3.html", second.NextHref)
	require.Equal(t, "../posts/post-06.html", second.Posts[0].Href)

	require.Equal(t, "page/3.html", third.Path)
	require.Equal(t, "page/2.html", third.PrevPath)
	require.Equal(t, "../page/2.html", third.PrevHref)
	require.Empty(t, third.NextHref)
	require.Empty(t, third.NextPath)
	require.Len(t, third.Posts, 1)

	for _, p := range pages {
		require.Equal(t, 3, p.TotalPages)
	}
}

func TestPlanPagesEmptyCorpus(t *testing.T) {
	pages := PlanPages(nil, 6, Layout{})
	require.Len(t, pages, 1)
	require.Equal(t, 1, pages[0].Number)
	require.Equal(t, "index.html", pages[0].Path)
	require.Empty(t, pages[0].Posts)
	require.Empty(t, pages[0].PrevHref)
	require.Empty(t, pages[0].NextHref)
}

func TestPlanPagesDoesNotMutateInput(t *testing.T) {
	posts := numberedPosts(8)
	PlanPages(posts, 6, Layout{})
	require.Equal(t, "posts/post-07.html", posts[7].Href)
}

func TestPlanPagesNestedLayout(t *testing.T) {
	pages := PlanPages(numberedPosts(3), 1, Layout{PageDir: "archive/page"})
	require.Equal(t, "archive/page/2.html", pages[1].Path)
	require.Equal(t, "../../", pages[1].BasePath)
	require.Equal(t, "../../index.html", pages[1].PrevHref)
	require.Equal(t, "../../archive/page/2.html", pages[2].PrevHref)
	require.Equal(t, "../../posts/post-01.html", pages[1].Posts[0].Href)
}
