package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/eringen/pubgen"
	"github.com/eringen/pubgen/preview"
)

type BuildCmd struct {
	Output string `short:"o" help:"Output directory (overrides outputDir in the configuration)"`
	Index  string `help:"Export the corpus to a SQLite index at this path" placeholder:"PATH"`
}

func (c *BuildCmd) Run(a *app) error {
	var opts []pubgen.Option
	if c.Index != "" {
		opts = append(opts, pubgen.WithIndexPath(a.localPath(c.Index)))
	}
	site, err := a.site(opts...)
	if err != nil {
		return err
	}
	if c.Output != "" {
		site.Config.OutputDir = c.Output
	}
	report, err := site.Build(a.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Built %d posts into %s (%d files, %s)\n",
		report.Posts, site.Config.OutputDir, len(report.Written), report.Duration.Round(time.Millisecond))
	return nil
}

type NewPostCmd struct {
	Title []string `arg:"" help:"Post title"`
	Posts bool     `negatable:"" default:"true" help:"Create the post in the posts subdir (--no-posts writes to the content root)"`
}

func (c *NewPostCmd) Run(a *app) error {
	site, err := a.site()
	if err != nil {
		return err
	}
	title := strings.Join(c.Title, " ")
	path, err := site.NewPost(title, pubgen.NewPostOptions{Root: !c.Posts})
	if errors.Is(err, pubgen.ErrPostExists) {
		fmt.Fprintf(a.stderr, "File already exists: %s\n", path)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Created new post: %s\n", path)
	return nil
}

type InitCmd struct {
	Force bool `help:"Overwrite existing files"`
}

func (c *InitCmd) Run(a *app) error {
	site, err := a.site()
	if err != nil {
		return err
	}
	written, err := site.Init(c.Force)
	if err != nil {
		return err
	}
	for _, p := range written {
		fmt.Fprintf(a.stdout, "  created %s\n", p)
	}
	fmt.Fprintln(a.stdout, "\nDone! Next steps:\n\n  pubgen new-post \"My first post\"\n  pubgen serve")
	return nil
}

type ServeCmd struct {
	Addr string `help:"Listen address" default:":3000"`
}

func (c *ServeCmd) Run(a *app) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := pubgen.NewMetrics(reg)
	if err != nil {
		return err
	}
	site, err := a.site(pubgen.WithMetrics(metrics))
	if err != nil {
		return err
	}
	srv := preview.New(site, preview.Options{
		Addr:     c.Addr,
		Dir:      a.cli.Root,
		Registry: reg,
	})
	return srv.Run(a.ctx)
}

type ListCmd struct {
	Tag   string `help:"Only list posts carrying this tag"`
	Index string `help:"Corpus index path" default:".pubgen/index.db"`
	Tags  bool   `help:"List tags with post counts instead of posts"`
}

func (c *ListCmd) Run(a *app) error {
	store, err := pubgen.OpenIndex(a.localPath(c.Index))
	if err != nil {
		return err
	}
	defer store.Close()

	build, err := store.LastBuild()
	if errors.Is(err, pubgen.ErrNoBuild) {
		return fmt.Errorf("index %s is empty; run `pubgen build --index %s` first", c.Index, c.Index)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	if c.Tags {
		tags, err := store.ListTags()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "TAG\tPOSTS")
		for _, t := range tags {
			fmt.Fprintf(w, "%s\t%d\n", t.Tag, t.Posts)
		}
		return nil
	}

	posts, err := store.ListPosts(c.Tag)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# build %s at %s, %d posts\n", build.ID, build.BuiltAt.Format("2006-01-02 15:04:05"), build.Posts)
	fmt.Fprintln(w, "DATE\tSLUG\tTITLE\tTAGS")
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Date, p.Slug, p.Title, pubgen.FormatTags(p.Tags))
	}
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	fmt.Fprintf(a.stdout, "pubgen %s\n", version)
	return nil
}
