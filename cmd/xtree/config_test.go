package main

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
)

func envOf(kv map[string]string) func(string) string {
	return func(key string) string {
		return kv[key]
	}
}

func TestParseConfig(t *testing.T) {
	testcases := []struct {
		name    string
		args    []string
		env     map[string]string
		mode    tree.Mode
		keys    string
		file    string
		metrics string
		wantErr error
	}{
		{
			name: "defaults",
			mode: tree.ModeBST,
		},
		{
			name: "flags",
			args: []string{"-mode", "avl", "-keys", "1,2,3", "-metrics", "stdout"},
			mode: tree.ModeAVL, keys: "1,2,3", metrics: "stdout",
		},
		{
			name: "file",
			args: []string{"-file", "keys.txt", "-mode", "rb"},
			mode: tree.ModeRedBlack, file: "keys.txt",
		},
		{
			name: "env fallback",
			env:  map[string]string{envMode: "rb", envMetrics: "prometheus"},
			mode: tree.ModeRedBlack, metrics: "prometheus",
		},
		{
			name: "flag beats env",
			args: []string{"-mode", "balanced"},
			env:  map[string]string{envMode: "avl"},
			mode: tree.ModeBalanced,
		},
		{
			name:    "invalid mode",
			args:    []string{"-mode", "splay"},
			wantErr: tree.ErrInvalidMode,
		},
		{
			name:    "invalid exporter",
			env:     map[string]string{envMetrics: "statsd"},
			wantErr: observability.ErrUnknownExporter,
		},
		{
			name:    "help",
			args:    []string{"-h"},
			wantErr: flag.ErrHelp,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			cfg, err := parseConfig(tc.args, envOf(tc.env), io.Discard)
			if tc.wantErr != nil {
				require.True(tt, errors.Is(err, tc.wantErr), err)
				return
			}
			require.NoError(tt, err)
			require.Equal(tt, tc.mode, cfg.Mode)
			require.Equal(tt, tc.keys, cfg.Keys)
			require.Equal(tt, tc.file, cfg.File)
			require.Equal(tt, tc.metrics, cfg.Metrics)
			require.Equal(tt, ":9464", cfg.MetricsAddr)
		})
	}
}

func TestParseConfigExclusive(t *testing.T) {
	_, err := parseConfig([]string{"-compare", "-follow", "keys.txt"}, envOf(nil), io.Discard)
	require.Error(t, err)
	_, err = parseConfig([]string{"-file", "a.txt", "-follow", "b.txt"}, envOf(nil), io.Discard)
	require.Error(t, err)
}
