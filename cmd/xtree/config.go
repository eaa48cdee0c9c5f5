package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
)

const (
	envMode    = "XTREE_MODE"
	envMetrics = "XTREE_METRICS"
)

// Config is the command line, the log level is read from XLOG_LVL by
// the logger itself.
type Config struct {
	Mode        tree.Mode
	Keys        string
	File        string
	Compare     bool
	Follow      string
	Metrics     string
	MetricsAddr string
	SessionID   string
}

func parseConfig(args []string, getenv func(string) string, output io.Writer) (Config, error) {
	var (
		cfg  Config
		mode string
	)
	fs := flag.NewFlagSet("xtree", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&mode, "mode", lookup(getenv, envMode, tree.ModeBST.String()),
		"tree variant: bst | avl | redblack | balanced (env "+envMode+")")
	fs.StringVar(&cfg.Keys, "keys", "",
		"keys separated by commas, semicolons or spaces, stdin is read when empty")
	fs.StringVar(&cfg.File, "file", "",
		"read the keys from the file when -keys is empty")
	fs.BoolVar(&cfg.Compare, "compare", false,
		"build one tree per mode from the keys and print the comparison")
	fs.StringVar(&cfg.Follow, "follow", "",
		"feed the keys appended to the file until interrupted")
	fs.StringVar(&cfg.Metrics, "metrics", lookup(getenv, envMetrics, observability.ExporterNone),
		"metrics exporter: stdout | prometheus (env "+envMetrics+")")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", ":9464",
		"listen address of the prometheus scrape endpoint")
	fs.StringVar(&cfg.SessionID, "session", "",
		"session ID added to the operation log")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	m, err := tree.ParseMode(mode)
	if err != nil {
		return cfg, err
	}
	cfg.Mode = m
	if cfg.Compare && cfg.Follow != "" {
		return cfg, fmt.Errorf("[xtree] -compare and -follow are exclusive")
	}
	if cfg.File != "" && cfg.Follow != "" {
		return cfg, fmt.Errorf("[xtree] -file and -follow are exclusive")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Metrics)) {
	case observability.ExporterNone, observability.ExporterStdout, observability.ExporterPrometheus:
	default:
		return cfg, fmt.Errorf("%w: %q", observability.ErrUnknownExporter, cfg.Metrics)
	}
	return cfg, nil
}

func lookup(getenv func(string) string, key, defaultValue string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return defaultValue
}
