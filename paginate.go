package pubgen

import (
	"path"
	"strconv"
)

// DefaultPageSize is the number of posts on each index page.
const DefaultPageSize = 6

// IndexPath is the output path of the first index page.
const IndexPath = "index.html"

// Layout describes where paginated index pages are written.
type Layout struct {
	// PageDir holds pages 2..n as <PageDir>/<n>.html. Default "page".
	PageDir string
}

func (l Layout) pageDir() string {
	if l.PageDir == "" {
		return "page"
	}
	return l.PageDir
}

// PagePath returns the site-relative output path of index page n.
func (l Layout) PagePath(n int) string {
	if n <= 1 {
		return IndexPath
	}
	return path.Join(l.pageDir(), strconv.Itoa(n)+".html")
}

// Page is one planned index page.
type Page struct {
	Number     int
	TotalPages int
	Path       string // site-relative output path
	Depth      int
	BasePath   string
	Posts      []Post // hrefs rewritten for Depth

	PrevPath string // canonical target, "" on the first page
	NextPath string // canonical target, "" on the last page
	PrevHref string // PrevPath resolved from this page
	NextHref string
}

// TotalPages returns max(1, ceil(n / pageSize)).
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := (n + pageSize - 1) / pageSize
	if total < 1 {
		return 1
	}
	return total
}

// PlanPages splits posts into fixed-size index pages. Page 1 is always
// present, even for an empty corpus.
func PlanPages(posts []Post, pageSize int, layout Layout) []Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := TotalPages(len(posts), pageSize)
	pages := make([]Page, 0, total)
	for n := 1; n <= total; n++ {
		start := (n - 1) * pageSize
		end := min(start+pageSize, len(posts))
		p := Page{
			Number:     n,
			TotalPages: total,
			Path:       layout.PagePath(n),
		}
		p.Depth = Depth(p.Path)
		p.BasePath = BasePath(p.Depth)
		p.Posts = rebasePosts(posts[start:end], p.Depth)
		if n > 1 {
			p.PrevPath = layout.PagePath(n - 1)
			p.PrevHref = ResolveHref(p.Depth, p.PrevPath)
		}
		if n < total {
			p.NextPath = layout.PagePath(n + 1)
			p.NextHref = ResolveHref(p.Depth, p.NextPath)
		}
		pages = append(pages, p)
	}
	return pages
}

// rebasePosts copies posts with their hrefs resolved from depth.
func rebasePosts(posts []Post, depth int) []Post {
	out := make([]Post, len(posts))
	for i, p := range posts {
		p.Href = ResolveHref(depth, p.Href)
		out[i] = p
	}
	return out
}
