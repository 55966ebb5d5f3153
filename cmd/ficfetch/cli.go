package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/ficfetch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Archive ficfetch.ArchiveService
	Pager   ficfetch.SearchPager
	Writer  ficfetch.StoryWriter
	Stats   func() ficfetch.CacheStats
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug     bool          `help:"Enable debug logging"`
	BaseURL   string        `name:"base-url" env:"FICFETCH_BASE_URL" default:"${base_url}" help:"Archive origin"`
	TTL       time.Duration `name:"ttl" env:"FICFETCH_TTL" default:"${ttl}" help:"How long fetched pages are reused"`
	Delay     time.Duration `env:"FICFETCH_DELAY" default:"${delay}" help:"Minimum delay between upstream requests"`
	Timeout   time.Duration `env:"FICFETCH_TIMEOUT" default:"${timeout}" help:"Upstream request timeout"`
	UserAgent string        `name:"user-agent" env:"FICFETCH_USER_AGENT" help:"Override the browser User-Agent"`
	Browser   bool          `env:"FICFETCH_BROWSER" help:"Fetch through headless Chrome"`

	Serve    ServeCmd    `cmd:"" help:"Serve the JSON API"`
	Story    StoryCmd    `cmd:"" help:"Fetch a story by work id"`
	Search   SearchCmd   `cmd:"" help:"Search works by tag"`
	Trending TrendingCmd `cmd:"" help:"List the most kudosed works"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"FICFETCH_ADDR" default:":8000" help:"Listen address"`
}

// StoryCmd is the "story" subcommand.
type StoryCmd struct {
	ID       string `arg:"" help:"Work id"`
	Markdown bool   `short:"m" help:"Write the story as a markdown file instead of printing JSON"`
	Out      string `short:"o" default:"." type:"path" help:"Directory for markdown output"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Tag      string `arg:"" help:"Tag or search query"`
	Fandom   string `short:"f" help:"Fandom name"`
	Rating   string `short:"r" help:"Rating: general, teen, mature, explicit or notrated"`
	Complete bool   `short:"c" help:"Only completed works"`
	Page     int    `short:"p" default:"1" help:"First result page"`
	Pages    int    `default:"1" help:"Number of result pages to fetch"`
	Sort     string `help:"Upstream sort column, e.g. kudos_count"`
	JSON     bool   `name:"json" help:"Print JSON instead of one line per work"`
}

// TrendingCmd is the "trending" subcommand.
type TrendingCmd struct {
	Page int  `short:"p" default:"1" help:"Result page"`
	JSON bool `name:"json" help:"Print JSON instead of one line per work"`
}
