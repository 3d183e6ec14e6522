package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/eringen/pubgen"
)

// version is set at build time via ldflags.
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config  string `short:"c" help:"Site configuration file, relative to --root" default:"site.config.json"`
	Verbose bool   `short:"v" help:"Enable debug logging"`
	Root    string `help:"Site root directory" default:"." type:"path"`
	Env     string `help:"Optional dotenv file, relative to --root" default:".env"`
}

// CLI is the pubgen command line.
type CLI struct {
	Globals `embed:""`

	Build   BuildCmd   `cmd:"" help:"Build the static site"`
	NewPost NewPostCmd `cmd:"" name:"new-post" help:"Create a new blog post"`
	Init    InitCmd    `cmd:"" help:"Write a starter site"`
	Serve   ServeCmd   `cmd:"" help:"Serve the site locally and rebuild on changes"`
	List    ListCmd    `cmd:"" help:"List posts from the corpus index"`
	Version VersionCmd `cmd:"" help:"Print the pubgen version"`
}

// app is what every command's Run receives.
type app struct {
	ctx    context.Context
	cli    *CLI
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cli CLI
	exitCode := -1
	parser, err := kong.New(&cli,
		kong.Name("pubgen"),
		kong.Description("pubgen - a static blog generator for Markdown posts"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	a := &app{ctx: ctx, cli: &cli, stdout: stdout, stderr: stderr, logger: logger}
	if err := kctx.Run(a); err != nil {
		logger.Error("Command failed", slog.String("command", kctx.Command()), slog.Any("error", err))
		return 1
	}
	return 0
}

// site loads the configuration and returns a Site rooted at --root.
func (a *app) site(opts ...pubgen.Option) (*pubgen.Site, error) {
	g := a.cli.Globals
	fsys := afero.NewBasePathFs(afero.NewOsFs(), g.Root)
	cfg, err := pubgen.LoadConfig(fsys, g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(a.localPath(g.Env)); err != nil {
		return nil, err
	}
	opts = append([]pubgen.Option{pubgen.WithLogger(a.logger)}, opts...)
	return pubgen.New(cfg, fsys, opts...), nil
}

// localPath resolves p against --root unless it is absolute or empty.
func (a *app) localPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.cli.Root, p)
}
