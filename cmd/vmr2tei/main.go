// Command vmr2tei converts NTVMR collation apparatus data to TEI XML.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"vmr2tei/internal/api"
	"vmr2tei/internal/config"
	"vmr2tei/internal/converter"
	"vmr2tei/internal/logging"
	"vmr2tei/internal/ntvmr"
)

const version = "1.0.0"

// CLI defines the command-line interface for vmr2tei.
var CLI struct {
	// Global flags
	Verbose   bool   `short:"v" help:"Enable debug logging"`
	LogFormat string `name:"log-format" enum:"text,json" default:"text" help:"Log output format (text or json)"`
	Config    string `short:"c" help:"Path to a JSON configuration file" type:"path"`

	Convert ConvertCmd `cmd:"" help:"Convert an apparatus to TEI XML"`
	Serve   ServeCmd   `cmd:"" help:"Start the REST API server"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// CacheFlags holds the cache controls shared by convert and serve.
type CacheFlags struct {
	CacheDir string `name:"cache-dir" type:"path" help:"Apparatus cache directory (default: user cache dir)"`
	CacheTTL int    `name:"cache-ttl" help:"Cache freshness in hours (overrides config)"`
	NoCache  bool   `name:"no-cache" help:"Disable the apparatus cache"`
	Offline  bool   `help:"Serve apparatus data from the cache only"`
}

// newConverter loads the configuration and assembles the pipeline.
func newConverter(flags CacheFlags) (*converter.Converter, *config.Config, func(), error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, nil, nil, err
	}
	if flags.CacheTTL > 0 {
		cfg.CacheTTLHours = flags.CacheTTL
	}

	cleanup := func() {}
	opts := []ntvmr.ClientOption{
		ntvmr.WithBaseURL(cfg.APIBaseURL),
		ntvmr.WithOffline(flags.Offline),
	}
	if !flags.NoCache {
		dir := flags.CacheDir
		if dir == "" {
			base, err := os.UserCacheDir()
			if err != nil {
				return nil, nil, nil, fmt.Errorf("resolving cache dir: %w", err)
			}
			dir = filepath.Join(base, "vmr2tei")
		}
		cache, err := ntvmr.OpenCache(dir, cfg.CacheTTL())
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, ntvmr.WithCache(cache))
		cleanup = func() { cache.Close() }
	} else if flags.Offline {
		return nil, nil, nil, fmt.Errorf("--offline requires the cache")
	}

	client := ntvmr.NewClient(opts...)
	return converter.New(cfg, client), cfg, cleanup, nil
}

// ConvertCmd converts one content index to a TEI document.
type ConvertCmd struct {
	Index  string `arg:"" help:"NTVMR content index, e.g. Acts, Acts.2, or Acts.2.45"`
	Output string `arg:"" optional:"" help:"Output .xml file (default: stdout)"`

	SingularToSubreading bool `name:"singular-to-subreading" help:"Retype singly-attested untyped readings as subreadings"`
	CacheFlags
}

func (c *ConvertCmd) Run() error {
	if c.Output != "" && !strings.HasSuffix(c.Output, ".xml") {
		return fmt.Errorf("output file must have an .xml extension: %s", c.Output)
	}

	conv, cfg, cleanup, err := newConverter(c.CacheFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if c.SingularToSubreading {
		cfg.SingularToSubreading = true
	}

	res, err := conv.Convert(context.Background(), c.Index, nil)
	if err != nil {
		return err
	}
	if c.Output == "" {
		_, err = os.Stdout.Write(res.TEI)
		return err
	}
	if err := os.WriteFile(c.Output, res.TEI, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	logging.Info("conversion written",
		"index", res.Index, "output", c.Output,
		"witnesses", res.Witnesses, "units", res.Units)
	return nil
}

// ServeCmd starts the REST API server.
type ServeCmd struct {
	Port int `default:"8080" help:"HTTP server port"`
	CacheFlags
}

func (c *ServeCmd) Run() error {
	conv, _, cleanup, err := newConverter(c.CacheFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	srv := api.NewServer(api.Config{Port: c.Port}, conv.Convert)
	return srv.Start()
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("vmr2tei version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("vmr2tei"),
		kong.Description("NTVMR collation apparatus to TEI XML converter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	level := logging.LevelInfo
	if CLI.Verbose {
		level = logging.LevelDebug
	}
	format := logging.FormatText
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(level, format)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
