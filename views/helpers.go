package views

import (
	"encoding/json"
	"html/template"
	"net/url"
	"strings"
	"time"
)

// Funcs are available to every page template.
var Funcs = template.FuncMap{
	"join":       JoinTags,
	"pathEscape": PathEscape,
	"year":       func() int { return time.Now().Year() },
}

// PathEscape wraps url.PathEscape for use in templates.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// JoinTags formats a tag slice as a comma-separated string.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// WebsiteJSONLD produces a Schema.org WebSite JSON-LD block for the index.
func WebsiteJSONLD(site Site) template.JS {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      strings.TrimRight(site.URL, "/") + "/",
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}
