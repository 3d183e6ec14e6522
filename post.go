package pubgen

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/inful/mdfp"
	"github.com/spf13/afero"

	"github.com/eringen/pubgen/internal/frontmatter"
	"github.com/eringen/pubgen/internal/logfields"
)

// ParsePost reads a content file and normalizes it into a Post. Absent or
// malformed front matter fields fall back to defaults; only read errors fail.
func ParsePost(fsys afero.Fs, f SourceFile, defaults PostDefaults, now time.Time, logger *slog.Logger) (Post, error) {
	if logger == nil {
		logger = slog.Default()
	}
	raw, err := afero.ReadFile(fsys, f.FullPath)
	if err != nil {
		return Post{}, fmt.Errorf("pubgen: read %s: %w", f.FullPath, err)
	}

	front, body, _, err := frontmatter.Split(raw)
	if err != nil {
		logger.Warn("Ignoring front matter", logfields.Path(f.FullPath), logfields.Error(err))
		front, body = nil, raw
	}
	fields, err := frontmatter.Parse(front)
	if err != nil {
		logger.Warn("Malformed front matter, using defaults", logfields.Path(f.FullPath), logfields.Error(err))
		fields = map[string]any{}
	}

	slug := f.Slug()
	p := Post{
		Title:       stringField(fields, "title", slug),
		Author:      stringField(fields, "author", defaults.Author),
		Category:    stringField(fields, "category", defaults.Category),
		Description: stringField(fields, "description", defaults.Description),
		Tags:        tagsField(fields["tags"]),
		Slug:        slug,
		Directory:   f.Directory,
		Href:        CanonicalHref(f.Directory, slug),
		Body:        string(body),
		SourcePath:  f.FullPath,
		Fingerprint: mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(front), "\n"), string(body)),
	}

	rawDate, ok := fields["date"]
	if !ok || dateString(rawDate) == "" {
		p.Date = now.Format("2006-01-02")
		p.Published = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return p, nil
	}
	p.Date = dateString(rawDate)
	if t, ok := ParseDate(rawDate); ok {
		p.Published = t
	} else {
		logger.Debug("Unparseable post date sorts as oldest", logfields.Slug(slug), slog.String("date", p.Date))
	}
	return p, nil
}

// LoadCorpus scans, parses and sorts every content file into one snapshot.
func LoadCorpus(ctx context.Context, fsys afero.Fs, dirs ContentDirs, defaults PostDefaults, now time.Time, logger *slog.Logger) (*Corpus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	files := ScanContent(fsys, dirs, logger)
	posts := make([]Post, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := ParsePost(fsys, f, defaults, now, logger)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	SortPosts(posts)
	return newCorpus(posts, files), nil
}

// SortPosts orders posts newest first; equal or unparseable dates fall back
// to slug order.
func SortPosts(posts []Post) {
	slices.SortStableFunc(posts, newerFirst)
}

func stringField(fields map[string]any, key, fallback string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return fallback
	}
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case time.Time:
		s = dateString(t)
	default:
		s = fmt.Sprint(t)
	}
	if s == "" {
		return fallback
	}
	return s
}

// tagsField keeps sequence tags only; any other shape yields an empty list.
func tagsField(v any) []string {
	seq, ok := v.([]any)
	if !ok {
		return []string{}
	}
	tags := make([]string, 0, len(seq))
	for _, item := range seq {
		if item == nil {
			continue
		}
		var s string
		if str, ok := item.(string); ok {
			s = strings.TrimSpace(str)
		} else {
			s = fmt.Sprint(item)
		}
		if s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}
