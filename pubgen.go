// Package pubgen is a static blog generator built with Go, goldmark and templ.
// It turns a directory of Markdown posts with YAML front matter into post
// pages, paginated indexes, tag listings, a sitemap, an RSS feed and a 404 page.
//
// Users own the page templates (html/template files loaded into a
// views.ViewFuncs), and pubgen handles scanning, ordering, linking and
// writing the output tree.
package pubgen

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/spf13/afero"

	"github.com/eringen/pubgen/markdown"
	"github.com/eringen/pubgen/views"
)

// Site is a configured generator bound to a storage fs. It holds no
// per-build state, so one Site can run any number of sequential builds.
type Site struct {
	Config SiteConfig
	Fs     afero.Fs
	// Views overrides the templates in Config.TemplatesDir when set.
	Views *views.ViewFuncs

	md        *markdown.Renderer
	logger    *slog.Logger
	metrics   *Metrics
	indexPath string
	now       func() time.Time
	workers   int
}

// New creates a Site for cfg on fsys.
func New(cfg SiteConfig, fsys afero.Fs, opts ...Option) *Site {
	cfg.setDefaults()

	s := &Site{
		Config:  cfg,
		Fs:      fsys,
		logger:  slog.Default(),
		now:     time.Now,
		workers: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(s)
	}

	var mdOpts []markdown.Option
	if cfg.AllowHTML {
		mdOpts = append(mdOpts, markdown.WithUnsafeHTML())
	}
	s.md = markdown.New(mdOpts...)
	return s
}

// Logger returns the logger the site reports to.
func (s *Site) Logger() *slog.Logger {
	return s.logger
}

// IndexPath returns the corpus index location, or "" when export is off.
func (s *Site) IndexPath() string {
	return s.indexPath
}
