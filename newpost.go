package pubgen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"text/template"

	"github.com/spf13/afero"

	"github.com/eringen/pubgen/internal/logfields"
	"github.com/eringen/pubgen/scaffold"
)

// NewPostOptions controls where NewPost writes.
type NewPostOptions struct {
	// Root writes to the content root instead of its posts subdir.
	Root bool
}

// scaffoldFuncs are available to every .tmpl scaffold file.
var scaffoldFuncs = template.FuncMap{
	"quote": strconv.Quote,
}

type newPostData struct {
	Title string
	Date  string
}

// NewPost writes a post skeleton for title and returns its path. An existing
// file is left untouched and ErrPostExists is returned with its path.
func (s *Site) NewPost(title string, opts NewPostOptions) (string, error) {
	slug := Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("pubgen: new post %q: %w", title, ErrEmptySlug)
	}

	dirs := s.Config.Dirs()
	dir := dirs.Posts
	if opts.Root {
		dir = dirs.Root
	}
	if err := s.Fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pubgen: create %s: %w", dir, err)
	}

	target := filepath.Join(dir, slug+ContentExt)
	if _, err := s.Fs.Stat(target); err == nil {
		return target, fmt.Errorf("pubgen: new post %s: %w", target, ErrPostExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("pubgen: stat %s: %w", target, err)
	}

	body, err := executeScaffold(scaffold.PostTemplate, newPostData{
		Title: title,
		Date:  s.now().Format("2006-01-02"),
	})
	if err != nil {
		return "", err
	}
	if err := afero.WriteFile(s.Fs, target, body, 0o644); err != nil {
		return "", fmt.Errorf("pubgen: write %s: %w", target, err)
	}
	s.logger.Info("Created new post", logfields.Path(target), logfields.Slug(slug))
	return target, nil
}

func executeScaffold(name string, data any) ([]byte, error) {
	content, err := scaffold.Templates.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	tmpl, err := template.New(filepath.Base(name)).Funcs(scaffoldFuncs).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
