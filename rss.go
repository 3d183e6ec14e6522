package pubgen

import (
	"encoding/xml"
	"slices"
	"time"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// BuildFeed renders an RSS 2.0 feed with one item per post, newest first.
// Text is escaped by the XML encoder.
func BuildFeed(cfg SiteConfig, posts []Post, now time.Time) ([]byte, error) {
	sorted := slices.Clone(posts)
	SortPosts(sorted)

	items := make([]rssItem, 0, len(sorted))
	for _, p := range sorted {
		link := BuildURL(cfg.URL, p.Href)
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Description,
			GUID:        link,
		}
		if p.HasDate() {
			item.PubDate = p.Published.UTC().Format(time.RFC1123Z)
		}
		items = append(items, item)
	}
	return encodeXML(rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:         cfg.Name,
			Link:          cfg.URL,
			Description:   cfg.Description,
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
			Items:         items,
		},
	})
}
