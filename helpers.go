package pubgen

import (
	"encoding/json"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents strips combining marks so "Café" slugs to "cafe" rather than "caf".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// slugify lower-cases s and replaces every run of runes outside [a-z0-9]
// (plus '-' when keepHyphen) with a single hyphen, trimming hyphens at both ends.
func slugify(s string, keepHyphen bool) string {
	s = strings.ToLower(foldAccents(strings.TrimSpace(s)))
	var b strings.Builder
	inRun := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || keepHyphen && r == '-' {
			b.WriteRune(r)
			inRun = false
			continue
		}
		if !inRun {
			b.WriteByte('-')
			inRun = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	return slugify(s, false)
}

// TagSlug converts a tag to its filesystem-safe file name. Existing hyphens
// are kept, so "COVID-19 Updates" becomes "covid-19-updates".
func TagSlug(tag string) string {
	return slugify(tag, true)
}

// BuildURL joins a base URL and a site-relative path with exactly one slash.
func BuildURL(base string, rel string) string {
	base = strings.TrimRight(base, "/")
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return base + "/"
	}
	return base + "/" + rel
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// ArticleJSONLD returns a Schema.org Article JSON-LD document for a post.
func ArticleJSONLD(cfg SiteConfig, post Post) string {
	postURL := BuildURL(cfg.URL, post.Href)
	data := map[string]interface{}{
		"@context":       "https://schema.org",
		"@type":          "Article",
		"headline":       post.Title,
		"description":    post.Description,
		"datePublished":  post.Date,
		"url":            postURL,
		"articleSection": post.Category,
		"author": map[string]string{
			"@type": "Person",
			"name":  post.Author,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.HasDate() {
		data["datePublished"] = post.Published.Format("2006-01-02")
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = JoinTags(post.Tags)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
