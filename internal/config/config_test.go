package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/canonical/docwiki/internal/transform"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"site": "https://wiki.example.org/",
		"locales": ["en-US", "fr"],
		"toc_max_level": 3,
		"iframe_hosts": [{"scheme": "https", "host": "www.youtube.com", "path_prefix": "/embed/"}]
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SiteURL() != "https://wiki.example.org" {
		t.Fatalf("unexpected site URL: %q", cfg.SiteURL())
	}
	if cfg.Locale() != "en-US" {
		t.Fatalf("unexpected default locale: %q", cfg.Locale())
	}
	if len(cfg.IframeHosts) != 1 || cfg.IframeHosts[0].PathPrefix != "/embed/" {
		t.Fatalf("unexpected iframe hosts: %+v", cfg.IframeHosts)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
site: https://wiki.example.org
default_locale: fr
index_path: /var/lib/docwiki/index.db
sanitize:
  tags: [p, a]
  attributes: [href]
iframe_hosts:
  - host: jsfiddle.net
    path_pattern: ^/[^/]+/embedded/
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Locale() != "fr" || cfg.IndexPath != "/var/lib/docwiki/index.db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Sanitize == nil || len(cfg.Sanitize.Tags) != 2 {
		t.Fatalf("unexpected sanitize policy: %+v", cfg.Sanitize)
	}
	patterns, err := cfg.IframePatterns()
	if err != nil {
		t.Fatalf("iframe patterns: %v", err)
	}
	if len(patterns) != 1 || patterns[0].PathPattern == nil {
		t.Fatalf("unexpected patterns: %+v", patterns)
	}
	if !patterns[0].PathPattern.MatchString("/user/embedded/") {
		t.Fatalf("expected path pattern to match")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"missing site", Config{}, "site is required"},
		{"toc too deep", Config{Site: "s", TOCMaxLevel: 7}, "toc_max_level"},
		{"toc level one", Config{Site: "s", TOCMaxLevel: 1}, "toc_max_level"},
		{"iframe without host", Config{Site: "s", IframeHosts: []IframeHost{{Scheme: "https"}}}, "host is required"},
		{"bad path pattern", Config{Site: "s", IframeHosts: []IframeHost{{Host: "h", PathPattern: "("}}}, "path_pattern"},
		{"valid", Config{Site: "s", TOCMaxLevel: 3}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestDefaultPathFromEnv(t *testing.T) {
	t.Setenv("DOCWIKI_CONFIG_FILE", "/tmp/custom.json")
	if got := DefaultPath(); got != "/tmp/custom.json" {
		t.Fatalf("unexpected path: %q", got)
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := Config{
		Site:        "https://wiki.example.org/",
		Locales:     []string{"en-US", "de"},
		TOCMaxLevel: 3,
		IframeHosts: []IframeHost{{Host: "www.youtube.com"}},
	}
	opts, err := cfg.PipelineOptions("", nil, nil)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.BaseURL != "https://wiki.example.org" || opts.Locale != "en-US" || opts.TOCMaxLevel != 3 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if locale, slug := opts.LocaleSlug("", "de/Web/HTML"); locale != "de" || slug != "Web/HTML" {
		t.Fatalf("unexpected locale split: %q %q", locale, slug)
	}

	src := `<h2>Intro</h2><p>Body</p><iframe src="https://evil.example.com/x"></iframe>`
	doc, err := transform.Pipeline(context.Background(), src, opts)
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	out := doc.Serialize()
	if !strings.Contains(out, `<h2 id="Intro">`) || !strings.Contains(out, `<iframe src="">`) {
		t.Fatalf("unexpected render: %s", out)
	}
}
