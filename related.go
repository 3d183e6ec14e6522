package pubgen

import "slices"

// DefaultRelatedCount is the number of related posts shown on a post page.
const DefaultRelatedCount = 3

type scoredPost struct {
	post  Post
	score int
}

// RelatedPosts ranks corpus posts by the number of distinct tags they share
// with post. The post itself and posts sharing nothing are excluded; ties go
// to the newer post, then to slug order. At most maxCount posts are returned.
func RelatedPosts(post Post, corpus []Post, maxCount int) []Post {
	if len(post.Tags) == 0 || maxCount <= 0 {
		return []Post{}
	}
	current := tagSet(post.Tags)

	var scored []scoredPost
	for _, p := range corpus {
		if p.Slug == post.Slug {
			continue
		}
		shared := 0
		for t := range tagSet(p.Tags) {
			if _, ok := current[t]; ok {
				shared++
			}
		}
		if shared > 0 {
			scored = append(scored, scoredPost{post: p, score: shared})
		}
	}
	return topRanked(scored, maxCount)
}

func topRanked(scored []scoredPost, maxCount int) []Post {
	slices.SortFunc(scored, func(a, b scoredPost) int {
		if a.score != b.score {
			return b.score - a.score
		}
		return newerFirst(a.post, b.post)
	})
	if len(scored) > maxCount {
		scored = scored[:maxCount]
	}
	out := make([]Post, len(scored))
	for i, s := range scored {
		out[i] = s.post
	}
	return out
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

// TagIndex is an inverted tag → posts index built once per build so related
// posts do not need a full corpus scan per post.
type TagIndex struct {
	posts []Post
	byTag map[string][]int
}

// NewTagIndex indexes posts by each of their distinct tags.
func NewTagIndex(posts []Post) *TagIndex {
	idx := &TagIndex{
		posts: posts,
		byTag: make(map[string][]int),
	}
	for i, p := range posts {
		for t := range tagSet(p.Tags) {
			idx.byTag[t] = append(idx.byTag[t], i)
		}
	}
	return idx
}

// Related returns the same ranking as RelatedPosts using the index.
func (x *TagIndex) Related(post Post, maxCount int) []Post {
	if len(post.Tags) == 0 || maxCount <= 0 {
		return []Post{}
	}
	scores := make(map[int]int)
	for t := range tagSet(post.Tags) {
		for _, i := range x.byTag[t] {
			if x.posts[i].Slug == post.Slug {
				continue
			}
			scores[i]++
		}
	}
	scored := make([]scoredPost, 0, len(scores))
	for i, s := range scores {
		scored = append(scored, scoredPost{post: x.posts[i], score: s})
	}
	return topRanked(scored, maxCount)
}

// Tags returns every distinct tag, sorted.
func (x *TagIndex) Tags() []string {
	tags := make([]string, 0, len(x.byTag))
	for t := range x.byTag {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}

// Posts returns the posts carrying tag in corpus order.
func (x *TagIndex) Posts(tag string) []Post {
	ids := x.byTag[tag]
	out := make([]Post, len(ids))
	for i, id := range ids {
		out[i] = x.posts[id]
	}
	return out
}
