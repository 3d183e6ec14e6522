package pubgen

import (
	"fmt"
	"html/template"

	"github.com/eringen/pubgen/views"
)

func (s *Site) viewSite() views.Site {
	return views.Site{
		Name:        s.Config.Name,
		URL:         s.Config.URL,
		Description: s.Config.Description,
	}
}

func listedPosts(posts []Post) []views.ListedPost {
	out := make([]views.ListedPost, len(posts))
	for i, p := range posts {
		out[i] = views.ListedPost{
			Title:       p.Title,
			Date:        p.Date,
			Author:      p.Author,
			Category:    p.Category,
			Description: p.Description,
			Tags:        p.Tags,
			Slug:        p.Slug,
			Href:        p.Href,
		}
	}
	return out
}

// tagLinker maps tags to their listing pages.
type tagLinker map[string]string

func newTagLinker(groups []TagGroup) tagLinker {
	l := make(tagLinker, len(groups))
	for _, g := range groups {
		l[g.Tag] = g.Path
	}
	return l
}

func (l tagLinker) links(tags []string, depth int) []views.TagLink {
	out := make([]views.TagLink, 0, len(tags))
	for _, t := range tags {
		p, ok := l[t]
		if !ok {
			continue
		}
		out = append(out, views.TagLink{Tag: t, Href: ResolveHref(depth, p)})
	}
	return out
}

func (s *Site) postPage(post Post, related []Post, tags tagLinker) (views.PostPage, error) {
	content, err := s.md.HTML(post.Body)
	if err != nil {
		return views.PostPage{}, fmt.Errorf("render markdown %s: %w", post.SourcePath, err)
	}
	depth := Depth(post.Href)
	rel := make([]views.RelatedPost, len(related))
	for i, r := range related {
		rel[i] = views.RelatedPost{
			Title:       r.Title,
			Date:        r.Date,
			Description: r.Description,
			Href:        ResolveHref(depth, r.Href),
		}
	}
	return views.PostPage{
		Site:         s.viewSite(),
		Title:        post.Title,
		Date:         post.Date,
		Author:       post.Author,
		Category:     post.Category,
		Content:      content,
		Description:  post.Description,
		Tags:         post.Tags,
		TagLinks:     tags.links(post.Tags, depth),
		Slug:         post.Slug,
		RelatedPosts: rel,
		BasePath:     BasePath(depth),
		SiteURL:      s.Config.URL,
		CanonicalURL: BuildURL(s.Config.URL, post.Href),
		JSONLD:       template.JS(ArticleJSONLD(s.Config, post)),
	}, nil
}

func (s *Site) indexPage(page Page, all []Post, groups []TagGroup) views.IndexPage {
	site := s.viewSite()
	tags := make([]views.TagLink, len(groups))
	for i, g := range groups {
		tags[i] = views.TagLink{Tag: g.Tag, Href: ResolveHref(page.Depth, g.Path)}
	}
	return views.IndexPage{
		Site:        site,
		Posts:       listedPosts(page.Posts),
		AllPosts:    listedPosts(rebasePosts(all, page.Depth)),
		Tags:        tags,
		Title:       s.Config.IndexTitle,
		Description: s.Config.IndexDescription,
		BasePath:    page.BasePath,
		SiteURL:     s.Config.URL,
		CurrentPage: page.Number,
		TotalPages:  page.TotalPages,
		PrevPage:    page.PrevHref,
		NextPage:    page.NextHref,
		JSONLD:      views.WebsiteJSONLD(site),
	}
}

func (s *Site) tagPage(g TagGroup) views.TagPage {
	return views.TagPage{
		Site:        s.viewSite(),
		Tag:         g.Tag,
		Posts:       listedPosts(g.Posts),
		Title:       "Posts tagged \"" + g.Tag + "\"",
		Description: "All posts tagged with " + g.Tag,
		BasePath:    g.BasePath,
		SiteURL:     s.Config.URL,
	}
}

func (s *Site) notFoundPage() views.NotFoundPage {
	return views.NotFoundPage{
		Site:        s.viewSite(),
		Title:       "404 - Page Not Found",
		Description: "Page not found - " + s.Config.Name,
		BasePath:    "",
		SiteURL:     s.Config.URL,
	}
}
