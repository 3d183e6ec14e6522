package pubgen

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/pubgen/internal/logfields"
	"github.com/eringen/pubgen/views"
)

// Page kinds reported in BuildReport.Pages and the pages_written metric.
const (
	KindPost     = "post"
	KindIndex    = "index"
	KindTag      = "tag"
	KindSitemap  = "sitemap"
	KindFeed     = "feed"
	KindNotFound = "404"
)

// Output file names at the root of the output dir.
const (
	SitemapFile  = "sitemap.xml"
	FeedFile     = "feed.xml"
	NotFoundFile = "404.html"
)

// BuildReport summarizes one build.
type BuildReport struct {
	BuildID  string
	Started  time.Time
	Duration time.Duration
	Posts    int
	Tags     int
	Pages    map[string]int // files written, by kind
	Written  []string       // site-relative paths in write order

	mu sync.Mutex
}

func (r *BuildReport) record(kind, rel string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Pages[kind]++
	r.Written = append(r.Written, rel)
}

// CleanOutputs removes generated files from outputDir: *.html and *.xml at
// its root plus the posts, page and tags dirs. Anything else (compiled
// assets) is kept. The dir and its posts subdir exist afterwards.
func CleanOutputs(fsys afero.Fs, outputDir string) error {
	if err := fsys.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	entries, err := afero.ReadDir(fsys, outputDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".html", ".xml":
			if err := fsys.Remove(filepath.Join(outputDir, e.Name())); err != nil {
				return err
			}
		}
	}
	for _, dir := range []string{"posts", Layout{}.pageDir(), TagsDir} {
		if err := fsys.RemoveAll(filepath.Join(outputDir, dir)); err != nil {
			return err
		}
	}
	return fsys.MkdirAll(filepath.Join(outputDir, "posts"), 0o755)
}

// build carries the state of one Build call.
type build struct {
	site   *Site
	logger *slog.Logger
	report *BuildReport

	views  views.ViewFuncs
	corpus *Corpus
	index  *TagIndex
	groups []TagGroup
	tags   tagLinker
}

// Build runs the whole pipeline and writes the site into Config.OutputDir.
// A failed stage aborts the build; files written by earlier stages remain.
func (s *Site) Build(ctx context.Context) (*BuildReport, error) {
	start := time.Now()
	b := &build{
		site: s,
		report: &BuildReport{
			BuildID: uuid.NewString(),
			Started: s.now(),
			Pages:   make(map[string]int),
		},
	}
	b.logger = s.logger.With(logfields.BuildID(b.report.BuildID))
	b.logger.Info("Build started", logfields.Path(s.Config.OutputDir))

	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{"clean", b.clean},
		{"templates", b.loadViews},
		{"corpus", b.loadCorpus},
		{"posts", b.writePosts},
		{"index", b.writeIndex},
		{"tags", b.writeTags},
		{"sitemap", b.writeSitemap},
		{"feed", b.writeFeed},
		{"404", b.writeNotFound},
		{"export", b.export},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return b.fail(st.name, err)
		}
		stageStart := time.Now()
		if err := st.run(ctx); err != nil {
			return b.fail(st.name, err)
		}
		b.logger.Debug("Stage complete", logfields.Stage(st.name), logfields.DurationMS(millis(time.Since(stageStart))))
	}

	b.report.Duration = time.Since(start)
	s.metrics.observeBuild(b.report.Duration)
	b.logger.Info("Build complete",
		logfields.Count(len(b.report.Written)),
		slog.Int("posts", b.report.Posts),
		slog.Int("tags", b.report.Tags),
		logfields.DurationMS(millis(b.report.Duration)))
	return b.report, nil
}

func (b *build) fail(stage string, err error) (*BuildReport, error) {
	b.site.metrics.buildFailed(stage)
	b.logger.Error("Build failed", logfields.Stage(stage), logfields.Error(err))
	return b.report, fmt.Errorf("pubgen: %s: %w", stage, err)
}

func (b *build) clean(context.Context) error {
	return CleanOutputs(b.site.Fs, b.site.Config.OutputDir)
}

func (b *build) loadViews(context.Context) error {
	if b.site.Views != nil {
		b.views = *b.site.Views
		return nil
	}
	v, err := views.LoadTemplates(afero.NewIOFS(b.site.Fs), filepath.ToSlash(b.site.Config.TemplatesDir))
	if err != nil {
		return err
	}
	b.views = v
	return nil
}

func (b *build) loadCorpus(ctx context.Context) error {
	cfg := b.site.Config
	corpus, err := LoadCorpus(ctx, b.site.Fs, cfg.Dirs(), cfg.Defaults, b.site.now(), b.logger)
	if err != nil {
		return err
	}
	b.corpus = corpus
	b.index = NewTagIndex(corpus.Posts)
	b.groups = BuildTagGroups(corpus.Posts, b.logger)
	b.tags = newTagLinker(b.groups)
	b.report.Posts = corpus.Len()
	b.report.Tags = len(b.groups)
	b.site.metrics.corpusLoaded(b.report.Posts, b.report.Tags)
	return nil
}

func (b *build) write(ctx context.Context, kind, rel string, render func() error) error {
	if err := render(); err != nil {
		return err
	}
	b.report.record(kind, rel)
	b.site.metrics.pageWritten(kind)
	b.logger.Debug("Generated", slog.String("kind", kind), logfields.Path(rel))
	return nil
}

func (b *build) writePosts(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.site.workers)
	for _, post := range b.corpus.Posts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			page, err := b.site.postPage(post, b.index.Related(post, b.site.Config.RelatedCount), b.tags)
			if err != nil {
				return err
			}
			return b.write(ctx, KindPost, post.Href, func() error {
				return writeComponent(ctx, b.site.Fs, b.site.Config.OutputDir, post.Href, b.views.Post(page))
			})
		})
	}
	return g.Wait()
}

func (b *build) writeIndex(ctx context.Context) error {
	for _, page := range PlanPages(b.corpus.Posts, b.site.Config.PageSize, Layout{}) {
		cmp := b.views.Index(b.site.indexPage(page, b.corpus.Posts, b.groups))
		if err := b.write(ctx, KindIndex, page.Path, func() error {
			return writeComponent(ctx, b.site.Fs, b.site.Config.OutputDir, page.Path, cmp)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (b *build) writeTags(ctx context.Context) error {
	for _, g := range b.groups {
		cmp := b.views.Tag(b.site.tagPage(g))
		if err := b.write(ctx, KindTag, g.Path, func() error {
			return writeComponent(ctx, b.site.Fs, b.site.Config.OutputDir, g.Path, cmp)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (b *build) writeSitemap(ctx context.Context) error {
	data, err := BuildSitemap(b.site.Config.URL, b.corpus.InScanOrder())
	if err != nil {
		return err
	}
	return b.write(ctx, KindSitemap, SitemapFile, func() error {
		return writeFile(b.site.Fs, b.site.Config.OutputDir, SitemapFile, data)
	})
}

func (b *build) writeFeed(ctx context.Context) error {
	data, err := BuildFeed(b.site.Config, b.corpus.Posts, b.site.now())
	if err != nil {
		return err
	}
	return b.write(ctx, KindFeed, FeedFile, func() error {
		return writeFile(b.site.Fs, b.site.Config.OutputDir, FeedFile, data)
	})
}

func (b *build) writeNotFound(ctx context.Context) error {
	cmp := b.views.NotFound(b.site.notFoundPage())
	return b.write(ctx, KindNotFound, NotFoundFile, func() error {
		return writeComponent(ctx, b.site.Fs, b.site.Config.OutputDir, NotFoundFile, cmp)
	})
}

func (b *build) export(ctx context.Context) error {
	if b.site.indexPath == "" {
		return nil
	}
	store, err := OpenIndex(b.site.indexPath)
	if err != nil {
		return fmt.Errorf("open index %s: %w", b.site.indexPath, err)
	}
	defer store.Close()
	if err := store.SaveCorpus(ctx, b.report.BuildID, b.corpus.Posts, b.report.Started); err != nil {
		return err
	}
	b.logger.Info("Corpus index updated", logfields.Path(b.site.indexPath), logfields.Count(b.corpus.Len()))
	return nil
}

// OutputPath returns where a site-relative output file lives on the site fs.
func (s *Site) OutputPath(rel string) string {
	return filepath.Join(s.Config.OutputDir, filepath.FromSlash(path.Clean(rel)))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
