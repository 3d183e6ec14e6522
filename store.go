package pubgen

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoBuild is returned by LastBuild before any corpus has been saved.
var ErrNoBuild = errors.New("no build recorded")

// Store is a SQLite export of the corpus of the last build. It lets tools
// query posts and tags without re-reading the content tree.
type Store struct {
	db *sql.DB
}

// IndexedPost is a post row as stored in the index.
type IndexedPost struct {
	Slug        string
	Title       string
	Date        string
	Published   time.Time // zero when the date did not parse
	Author      string
	Category    string
	Description string
	Href        string
	Tags        []string
	Fingerprint string
}

// TagCount is a tag with the number of posts carrying it.
type TagCount struct {
	Tag   string
	Posts int
}

// BuildRecord describes one saved build.
type BuildRecord struct {
	ID      string
	BuiltAt time.Time
	Posts   int
}

// OpenIndex opens (or creates) the SQLite index at path, ensures its
// directory exists, and creates the schema.
func OpenIndex(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets `pubgen list` read while a preview rebuild writes.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    published INTEGER NOT NULL,
    author TEXT NOT NULL,
    category TEXT NOT NULL,
    description TEXT NOT NULL,
    href TEXT NOT NULL,
    fingerprint TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS post_tags (
    slug TEXT NOT NULL REFERENCES posts(slug) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    tag TEXT NOT NULL,
    PRIMARY KEY (slug, position)
);
CREATE INDEX IF NOT EXISTS post_tags_tag ON post_tags(tag);
CREATE TABLE IF NOT EXISTS builds (
    id TEXT PRIMARY KEY,
    built_at INTEGER NOT NULL,
    posts INTEGER NOT NULL
);
`)
	return err
}

// SaveCorpus replaces the indexed posts with posts and records the build,
// all in one transaction.
func (s *Store) SaveCorpus(ctx context.Context, buildID string, posts []Post, builtAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}

	insertPost, err := tx.PrepareContext(ctx, `INSERT INTO posts (slug, title, date, published, author, category, description, href, fingerprint) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertPost.Close()
	insertTag, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO post_tags (slug, position, tag) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertTag.Close()

	for _, p := range posts {
		if _, err := insertPost.ExecContext(ctx, p.Slug, p.Title, p.Date, publishedKey(p.Published),
			p.Author, p.Category, p.Description, p.Href, p.Fingerprint); err != nil {
			return fmt.Errorf("index %s: %w", p.Slug, err)
		}
		for i, t := range p.Tags {
			if _, err := insertTag.ExecContext(ctx, p.Slug, i, t); err != nil {
				return fmt.Errorf("index tags of %s: %w", p.Slug, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO builds (id, built_at, posts) VALUES (?, ?, ?)`,
		buildID, builtAt.UTC().Unix(), len(posts)); err != nil {
		return err
	}
	return tx.Commit()
}

// ListPosts returns indexed posts newest first, ties by slug. If tag is
// non-empty, results are filtered to posts carrying exactly that tag.
func (s *Store) ListPosts(tag string) ([]IndexedPost, error) {
	var rows *sql.Rows
	var err error
	const cols = `p.slug, p.title, p.date, p.published, p.author, p.category, p.description, p.href, p.fingerprint`
	if tag == "" {
		rows, err = s.db.Query(`SELECT ` + cols + ` FROM posts p ORDER BY p.published DESC, p.slug ASC`)
	} else {
		rows, err = s.db.Query(`SELECT `+cols+` FROM posts p WHERE EXISTS (SELECT 1 FROM post_tags t WHERE t.slug = p.slug AND t.tag = ?) ORDER BY p.published DESC, p.slug ASC`, tag)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []IndexedPost
	for rows.Next() {
		var p IndexedPost
		var published int64
		if err := rows.Scan(&p.Slug, &p.Title, &p.Date, &published, &p.Author, &p.Category, &p.Description, &p.Href, &p.Fingerprint); err != nil {
			return nil, err
		}
		p.Published = publishedTime(published)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range posts {
		tags, err := s.postTags(posts[i].Slug)
		if err != nil {
			return nil, err
		}
		posts[i].Tags = tags
	}
	return posts, nil
}

func (s *Store) postTags(slug string) ([]string, error) {
	rows, err := s.db.Query(`SELECT tag FROM post_tags WHERE slug = ? ORDER BY position`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ListTags returns every indexed tag with its post count, ordered by tag.
func (s *Store) ListTags() ([]TagCount, error) {
	rows, err := s.db.Query(`SELECT tag, COUNT(DISTINCT slug) FROM post_tags GROUP BY tag ORDER BY tag`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Posts); err != nil {
			return nil, err
		}
		result = append(result, tc)
	}
	return result, rows.Err()
}

// LastBuild returns the most recently saved build.
func (s *Store) LastBuild() (BuildRecord, error) {
	var rec BuildRecord
	var builtAt int64
	err := s.db.QueryRow(`SELECT id, built_at, posts FROM builds ORDER BY built_at DESC, rowid DESC LIMIT 1`).
		Scan(&rec.ID, &builtAt, &rec.Posts)
	if errors.Is(err, sql.ErrNoRows) {
		return BuildRecord{}, ErrNoBuild
	}
	if err != nil {
		return BuildRecord{}, err
	}
	rec.BuiltAt = time.Unix(builtAt, 0).UTC()
	return rec, nil
}

// publishedKey is the sort key of a publish time; undated posts sort last.
func publishedKey(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().Unix()
}

func publishedTime(key int64) time.Time {
	if key == 0 {
		return time.Time{}
	}
	return time.Unix(key, 0).UTC()
}

// FormatTags joins tags for display in listings.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ",")
}
