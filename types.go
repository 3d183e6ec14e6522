package pubgen

import (
	"path"
	"strings"
	"time"
)

// Directory identifies which source location a content file came from.
type Directory string

const (
	DirRoot  Directory = "root"
	DirPosts Directory = "posts"
)

// ContentExt is the extension of content source files.
const ContentExt = ".md"

// SourceFile describes a discovered content file.
type SourceFile struct {
	FileName  string
	FullPath  string
	Directory Directory
}

// Slug returns the file's base name without its extension.
func (f SourceFile) Slug() string {
	return strings.TrimSuffix(path.Base(f.FileName), ContentExt)
}

// Post is the normalized content record every view is derived from.
type Post struct {
	Title       string
	Date        string    // as written in front matter
	Published   time.Time // Date parsed; zero when unparseable
	Author      string
	Category    string
	Description string
	Tags        []string
	Slug        string
	Directory   Directory
	Href        string // canonical, relative to the site root
	Body        string // raw Markdown
	SourcePath  string
	Fingerprint string
}

// HasDate reports whether the post's date could be parsed.
func (p Post) HasDate() bool {
	return !p.Published.IsZero()
}

// CanonicalHref returns the site-root relative output link for a slug.
func CanonicalHref(dir Directory, slug string) string {
	if dir == DirPosts {
		return "posts/" + slug + ".html"
	}
	return slug + ".html"
}

// Corpus is the immutable snapshot of all posts for one build.
type Corpus struct {
	// Posts sorted by date descending, ties by slug.
	Posts []Post
	// Files in scan order, after slug de-duplication.
	Files []SourceFile

	bySlug map[string]int
}

// Len returns the number of posts.
func (c *Corpus) Len() int {
	return len(c.Posts)
}

// Post looks a post up by slug.
func (c *Corpus) Post(slug string) (Post, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Post{}, false
	}
	return c.Posts[i], true
}

// InScanOrder returns the posts in the order the scanner produced them.
func (c *Corpus) InScanOrder() []Post {
	out := make([]Post, 0, len(c.Files))
	for _, f := range c.Files {
		if p, ok := c.Post(f.Slug()); ok {
			out = append(out, p)
		}
	}
	return out
}

func newCorpus(posts []Post, files []SourceFile) *Corpus {
	c := &Corpus{Posts: posts, Files: files, bySlug: make(map[string]int, len(posts))}
	for i, p := range posts {
		c.bySlug[p.Slug] = i
	}
	return c
}
