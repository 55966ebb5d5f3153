package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ficfetch"
	"github.com/fwojciec/ficfetch/ao3"
	"github.com/fwojciec/ficfetch/cache"
	"github.com/fwojciec/ficfetch/fs"
	"github.com/fwojciec/ficfetch/goquery"
	"github.com/fwojciec/ficfetch/htmltomarkdown"
	fichttp "github.com/fwojciec/ficfetch/http"
	"github.com/fwojciec/ficfetch/ratelimit"
	"github.com/fwojciec/ficfetch/rod"
	ficslog "github.com/fwojciec/ficfetch/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher replaces the network fetcher when set. The cache, rate
	// limiter and logging layers are still applied on top of it.
	Fetcher ficfetch.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ficfetch"),
		kong.Description("Fetch stories and search listings from the Archive of Our Own"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
		kong.Vars{
			"base_url": ficfetch.DefaultBaseURL,
			"ttl":      cache.DefaultTTL.String(),
			"delay":    ratelimit.DefaultDelay.String(),
			"timeout":  fichttp.DefaultFetchTimeout.String(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ficfetch --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	fetcher, err := m.fetcher(cli, stderr)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	extractor, err := goquery.NewExtractor(cli.BaseURL)
	if err != nil {
		return err
	}

	store := cache.New(cache.WithTTL(cli.TTL))
	svc := &ao3.Service{
		Fetcher: cache.NewFetcher(
			ficslog.NewLoggingFetcher(fetcher, deps.Logger),
			store,
			ratelimit.NewGate(cli.Delay),
		),
		Extractor: ficslog.NewLoggingExtractor(extractor, deps.Logger),
		BaseURL:   cli.BaseURL,
	}

	deps.Archive = ficslog.NewLoggingArchiveService(svc, deps.Logger)
	deps.Pager = ficslog.NewLoggingSearchPager(svc, deps.Logger)
	deps.Stats = store.Stats
	deps.Writer = fs.NewStoryWriter(cli.Story.Out, htmltomarkdown.NewConverter())

	return kongCtx.Run(deps)
}

// fetcher returns the network fetcher selected by the flags.
func (m *Main) fetcher(cli *CLI, stderr io.Writer) (ficfetch.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	if cli.Browser {
		f, err := rod.NewFetcher(
			rod.WithFetchTimeout(cli.Timeout),
			rod.WithUserAgent(cli.UserAgent),
		)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed to use --browser")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return f, nil
	}

	return fichttp.NewFetcher(
		fichttp.WithTimeout(cli.Timeout),
		fichttp.WithUserAgent(cli.UserAgent),
	), nil
}
