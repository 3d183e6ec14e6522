package views

import "html/template"

// Site holds site-wide values every page context carries.
type Site struct {
	Name        string
	URL         string
	Description string
}

// ListedPost is a post as shown in a listing, with Href already resolved for
// the page it appears on.
type ListedPost struct {
	Title       string
	Date        string
	Author      string
	Category    string
	Description string
	Tags        []string
	Slug        string
	Href        string
}

// RelatedPost is a post suggested at the bottom of a post page.
type RelatedPost struct {
	Title       string
	Date        string
	Description string
	Href        string
}

// TagLink points at a tag listing page.
type TagLink struct {
	Tag  string
	Href string
}

// PostPage is the context of a single post page.
type PostPage struct {
	Site         Site
	Title        string
	Date         string
	Author       string
	Category     string
	Content      template.HTML
	Description  string
	Tags         []string
	TagLinks     []TagLink
	Slug         string
	RelatedPosts []RelatedPost
	BasePath     string
	SiteURL      string
	CanonicalURL string
	JSONLD       template.JS
}

// IndexPage is the context of one paginated index page. PrevPage and
// NextPage are empty when there is no such page.
type IndexPage struct {
	Site        Site
	Posts       []ListedPost
	AllPosts    []ListedPost
	Tags        []TagLink
	Title       string
	Description string
	BasePath    string
	SiteURL     string
	CurrentPage int
	TotalPages  int
	PrevPage    string
	NextPage    string
	JSONLD      template.JS
}

// TagPage is the context of a tag listing page.
type TagPage struct {
	Site        Site
	Tag         string
	Posts       []ListedPost
	Title       string
	Description string
	BasePath    string
	SiteURL     string
}

// NotFoundPage is the context of the 404 page.
type NotFoundPage struct {
	Site        Site
	Title       string
	Description string
	BasePath    string
	SiteURL     string
}
