package pubgen

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"path"
	"slices"

	"github.com/eringen/pubgen/internal/logfields"
)

// TagsDir holds one listing page per tag.
const TagsDir = "tags"

// TagGroup is the listing of every post carrying one tag.
type TagGroup struct {
	Tag      string
	Slug     string // file name without extension
	Path     string // site-relative output path
	Depth    int
	BasePath string
	Posts    []Post // newest first, hrefs rewritten for Depth
}

// BuildTagGroups groups posts by exact tag string. Groups are ordered by tag.
// When two tags normalize to the same file name, the later tag in order gets
// a hash suffix instead of overwriting the earlier page.
func BuildTagGroups(posts []Post, logger *slog.Logger) []TagGroup {
	if logger == nil {
		logger = slog.Default()
	}
	idx := NewTagIndex(posts)
	tags := idx.Tags()

	used := make(map[string]string, len(tags))
	groups := make([]TagGroup, 0, len(tags))
	for _, tag := range tags {
		slug := TagSlug(tag)
		if slug == "" {
			slug = "tag"
		}
		if other, taken := used[slug]; taken {
			disambiguated := fmt.Sprintf("%s-%08x", slug, tagHash(tag))
			logger.Warn("Tag file name collision, disambiguating",
				logfields.Tag(tag), slog.String("collides_with", other), logfields.Path(disambiguated))
			slug = disambiguated
		}
		used[slug] = tag

		tagged := idx.Posts(tag)
		slices.SortStableFunc(tagged, newerFirst)

		g := TagGroup{
			Tag:  tag,
			Slug: slug,
			Path: TagPath(slug),
		}
		g.Depth = Depth(g.Path)
		g.BasePath = BasePath(g.Depth)
		g.Posts = rebasePosts(tagged, g.Depth)
		groups = append(groups, g)
	}
	return groups
}

// TagPath returns the site-relative output path for a tag slug.
func TagPath(slug string) string {
	return path.Join(TagsDir, slug+".html")
}

func tagHash(tag string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	return h.Sum32()
}
