package pubgen

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/eringen/pubgen/internal/logfields"
	"github.com/eringen/pubgen/scaffold"
)

type siteData struct {
	SiteConfig
	Date string
}

// Init writes a starter site (configuration, page templates and a welcome
// post) into the site fs and returns the paths it wrote. Existing files are
// skipped unless force is set.
func (s *Site) Init(force bool) ([]string, error) {
	data := siteData{SiteConfig: s.Config, Date: s.now().Format("2006-01-02")}
	var written []string

	err := fs.WalkDir(scaffold.Templates, scaffold.SiteRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(p, scaffold.SiteRoot+"/")
		outPath := s.starterPath(rel)

		if _, err := s.Fs.Stat(outPath); err == nil && !force {
			s.logger.Info("Keeping existing file", logfields.Path(outPath))
			return nil
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		var content []byte
		if strings.HasSuffix(p, ".tmpl") {
			content, err = executeScaffold(p, data)
		} else {
			content, err = scaffold.Templates.ReadFile(p)
		}
		if err != nil {
			return err
		}

		if err := s.Fs.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		if err := afero.WriteFile(s.Fs, outPath, content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		s.logger.Info("Created", logfields.Path(outPath))
		written = append(written, outPath)
		return nil
	})
	if err != nil {
		return written, fmt.Errorf("pubgen: init: %w", err)
	}
	return written, nil
}

// starterPath maps a starter tree path onto the configured dirs.
func (s *Site) starterPath(rel string) string {
	rel = strings.TrimSuffix(rel, ".tmpl")
	if path.Base(rel) == "dotenv" {
		rel = path.Join(path.Dir(rel), ".env.example")
	}
	switch {
	case strings.HasPrefix(rel, "src/templates/"):
		return filepath.Join(s.Config.TemplatesDir, filepath.FromSlash(strings.TrimPrefix(rel, "src/templates/")))
	case strings.HasPrefix(rel, "src/content/posts/"):
		return filepath.Join(s.Config.Dirs().Posts, filepath.FromSlash(strings.TrimPrefix(rel, "src/content/posts/")))
	}
	return filepath.FromSlash(rel)
}
