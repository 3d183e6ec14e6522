// Package views turns html/template files into templ components and defines
// the context each page template receives.
package views

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"github.com/a-h/templ"
)

// ErrTemplateNotFound is returned when a required page template is missing.
var ErrTemplateNotFound = errors.New("template not found")

// Required page templates, relative to the templates dir.
const (
	PostTemplate     = "post.html"
	IndexTemplate    = "index.html"
	TagTemplate      = "tag.html"
	NotFoundTemplate = "404.html"

	// PartialsDir holds optional shared templates parsed into every page.
	PartialsDir = "partials"
)

// ViewFuncs holds the components the generator calls when rendering pages.
type ViewFuncs struct {
	Post     func(PostPage) templ.Component
	Index    func(IndexPage) templ.Component
	Tag      func(TagPage) templ.Component
	NotFound func(NotFoundPage) templ.Component
}

// LoadTemplates parses the page templates under dir in fsys. Every required
// template must exist; files in dir/partials are shared by all pages.
func LoadTemplates(fsys fs.FS, dir string) (ViewFuncs, error) {
	partials, err := fs.Glob(fsys, path.Join(dir, PartialsDir, "*.html"))
	if err != nil {
		return ViewFuncs{}, fmt.Errorf("glob partials: %w", err)
	}

	post, err := parsePage(fsys, dir, PostTemplate, partials)
	if err != nil {
		return ViewFuncs{}, err
	}
	index, err := parsePage(fsys, dir, IndexTemplate, partials)
	if err != nil {
		return ViewFuncs{}, err
	}
	tag, err := parsePage(fsys, dir, TagTemplate, partials)
	if err != nil {
		return ViewFuncs{}, err
	}
	notFound, err := parsePage(fsys, dir, NotFoundTemplate, partials)
	if err != nil {
		return ViewFuncs{}, err
	}

	return ViewFuncs{
		Post:     func(p PostPage) templ.Component { return templ.FromGoHTML(post, p) },
		Index:    func(p IndexPage) templ.Component { return templ.FromGoHTML(index, p) },
		Tag:      func(p TagPage) templ.Component { return templ.FromGoHTML(tag, p) },
		NotFound: func(p NotFoundPage) templ.Component { return templ.FromGoHTML(notFound, p) },
	}, nil
}

func parsePage(fsys fs.FS, dir, name string, partials []string) (*template.Template, error) {
	file := path.Join(dir, name)
	if _, err := fs.Stat(fsys, file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, file)
		}
		return nil, fmt.Errorf("stat template %s: %w", file, err)
	}
	patterns := append(append([]string{}, partials...), file)
	t, err := template.New(name).Funcs(Funcs).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", file, err)
	}
	return t, nil
}
