package pubgen

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/eringen/pubgen/views"
)

// DefaultConfigFile is the site configuration file looked up in the site root.
const DefaultConfigFile = "site.config.json"

// SiteConfig holds all configuration for a pubgen site. Paths are relative
// to the storage fs the Site is built on.
type SiteConfig struct {
	URL         string `yaml:"siteUrl"`         // canonical URL, trailing slashes stripped
	Name        string `yaml:"siteName"`        // feed channel title
	Description string `yaml:"siteDescription"` // feed channel description
	Author      string `yaml:"siteAuthor"`      // JSON-LD publisher author (optional)

	IndexTitle       string `yaml:"indexTitle"`
	IndexDescription string `yaml:"indexDescription"`

	ContentDir   string `yaml:"contentDir"`   // default "src/content"
	PostsSubdir  string `yaml:"postsSubdir"`  // default "posts"
	TemplatesDir string `yaml:"templatesDir"` // default "src/templates"
	OutputDir    string `yaml:"outputDir"`    // default "docs"

	PageSize     int  `yaml:"pageSize"`     // default 6
	RelatedCount int  `yaml:"relatedCount"` // default 3
	AllowHTML    bool `yaml:"allowHtml"`    // pass raw HTML in Markdown through

	Defaults PostDefaults `yaml:"defaults"`
}

// PostDefaults are the fallbacks for absent front matter fields.
type PostDefaults struct {
	Author      string `yaml:"author"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

// ContentDirs are the two source locations the scanner reads.
type ContentDirs struct {
	Root  string
	Posts string
}

func (c *SiteConfig) setDefaults() {
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if c.URL == "" {
		c.URL = "https://id-blog.github.io"
	}
	if c.Name == "" {
		c.Name = "Infectious Disease News"
	}
	if c.Description == "" {
		c.Description = "Latest infectious disease news and updates"
	}
	if c.IndexTitle == "" {
		c.IndexTitle = "Infectious Disease News Blog"
	}
	if c.IndexDescription == "" {
		c.IndexDescription = "Stay informed about the latest infectious disease outbreaks, research, and public health updates"
	}
	if c.ContentDir == "" {
		c.ContentDir = filepath.Join("src", "content")
	}
	if c.PostsSubdir == "" {
		c.PostsSubdir = "posts"
	}
	if c.TemplatesDir == "" {
		c.TemplatesDir = filepath.Join("src", "templates")
	}
	if c.OutputDir == "" {
		c.OutputDir = "docs"
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.RelatedCount <= 0 {
		c.RelatedCount = DefaultRelatedCount
	}
	if c.Defaults.Author == "" {
		c.Defaults.Author = "Disease Reporter"
	}
	if c.Defaults.Category == "" {
		c.Defaults.Category = "General"
	}
	if c.Defaults.Description == "" {
		c.Defaults.Description = "Latest infectious disease news"
	}
}

// Dirs returns the scanner's source locations.
func (c SiteConfig) Dirs() ContentDirs {
	return ContentDirs{
		Root:  c.ContentDir,
		Posts: filepath.Join(c.ContentDir, c.PostsSubdir),
	}
}

// LoadConfig reads a YAML or JSON configuration file from fsys. A missing
// file yields the defaults.
func LoadConfig(fsys afero.Fs, path string) (SiteConfig, error) {
	var cfg SiteConfig
	data, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("No site configuration found, using defaults", "path", path)
	case err != nil:
		return cfg, fmt.Errorf("pubgen: read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("pubgen: parse config %s: %w", path, err)
		}
	}
	cfg.setDefaults()
	return cfg, nil
}

// ApplyEnv overlays SITE_URL, SITE_NAME, SITE_DESCRIPTION and
// PUBGEN_PAGE_SIZE from the environment. Variables from envFile (when it
// exists) are loaded first without overriding the process environment.
func (c *SiteConfig) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("pubgen: load %s: %w", envFile, err)
		}
	}
	c.URL = EnvOr("SITE_URL", c.URL)
	c.Name = EnvOr("SITE_NAME", c.Name)
	c.Description = EnvOr("SITE_DESCRIPTION", c.Description)
	if v := os.Getenv("PUBGEN_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("pubgen: PUBGEN_PAGE_SIZE must be a positive integer, got %q", v)
		}
		c.PageSize = n
	}
	c.setDefaults()
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional Site behavior.
type Option func(*Site)

// WithLogger sets the logger used for build output (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *Site) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records build metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(s *Site) {
		s.metrics = m
	}
}

// WithIndexPath exports the corpus to a SQLite index at path after each build.
// The path is on the local disk, not the site fs.
func WithIndexPath(path string) Option {
	return func(s *Site) {
		s.indexPath = path
	}
}

// WithClock replaces time.Now for default post dates and feed timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Site) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWorkers bounds how many post pages render at once (default runtime.NumCPU()).
func WithWorkers(n int) Option {
	return func(s *Site) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithViews renders with the given components instead of loading templates.
func WithViews(v views.ViewFuncs) Option {
	return func(s *Site) {
		s.Views = &v
	}
}
