// Package scaffold provides the embedded files pubgen writes when creating
// a new post or a starter site.
package scaffold

import "embed"

// Templates contains all scaffold files. Files with a .tmpl suffix use Go
// text/template syntax and lose the suffix when written; everything else is
// copied verbatim.
//
//go:embed all:templates
var Templates embed.FS

const (
	// PostTemplate is the skeleton of a new post.
	PostTemplate = "templates/post.md.tmpl"
	// SiteRoot holds the starter site tree.
	SiteRoot = "templates/site"
)
