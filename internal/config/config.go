package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/canonical/docwiki/internal/docindex"
	"github.com/canonical/docwiki/internal/logging"
	"github.com/canonical/docwiki/internal/sanitize"
	"github.com/canonical/docwiki/internal/transform"
)

const defaultConfigPath = "/etc/docwiki/config.yaml"

// Config is the renderer configuration. Files ending in .yaml or .yml are
// read as YAML, anything else as JSON.
type Config struct {
	Site          string           `json:"site" yaml:"site"`
	DefaultLocale string           `json:"default_locale" yaml:"default_locale"`
	Locales       []string         `json:"locales" yaml:"locales"`
	TOCMaxLevel   int              `json:"toc_max_level" yaml:"toc_max_level"`
	IframeHosts   []IframeHost     `json:"iframe_hosts" yaml:"iframe_hosts"`
	IndexPath     string           `json:"index_path" yaml:"index_path"`
	Sanitize      *sanitize.Policy `json:"sanitize" yaml:"sanitize"`
	LogLevel      string           `json:"log_level" yaml:"log_level"`
}

// IframeHost allows iframes from Host. PathPattern is a regular expression
// matched against the URL path and takes precedence over PathPrefix.
type IframeHost struct {
	Scheme      string `json:"scheme" yaml:"scheme"`
	Host        string `json:"host" yaml:"host"`
	PathPrefix  string `json:"path_prefix" yaml:"path_prefix"`
	PathPattern string `json:"path_pattern" yaml:"path_pattern"`
}

func DefaultPath() string {
	if path := os.Getenv("DOCWIKI_CONFIG_FILE"); path != "" {
		return path
	}
	return defaultConfigPath
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &cfg)
	default:
		err = json.Unmarshal(raw, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Site == "" {
		return errors.New("config site is required")
	}
	if c.TOCMaxLevel < 0 || c.TOCMaxLevel > transform.TOCAllLevels {
		return fmt.Errorf("config toc_max_level must be between 0 and %d", transform.TOCAllLevels)
	}
	if c.TOCMaxLevel == 1 {
		return errors.New("config toc_max_level must be at least 2")
	}
	for i, h := range c.IframeHosts {
		if h.Host == "" {
			return fmt.Errorf("config iframe_hosts[%d] host is required", i)
		}
		if h.PathPattern != "" {
			if _, err := regexp.Compile(h.PathPattern); err != nil {
				return fmt.Errorf("config iframe_hosts[%d] path_pattern: %w", i, err)
			}
		}
	}
	return nil
}

func (c *Config) SiteURL() string {
	return strings.TrimRight(c.Site, "/")
}

func (c *Config) Locale() string {
	if c.DefaultLocale != "" {
		return c.DefaultLocale
	}
	return transform.DefaultLocale
}

// OpenIndex opens the document index used for link existence checks. It
// returns nil when no index is configured.
func (c *Config) OpenIndex() (*docindex.Store, error) {
	if c.IndexPath == "" {
		return nil, nil
	}
	return docindex.Open(c.IndexPath)
}

// Logger builds the logger for the configured level.
func (c *Config) Logger() *slog.Logger {
	return logging.BuildLogger(c.LogLevel)
}

// IframePatterns compiles the iframe allow-list.
func (c *Config) IframePatterns() ([]transform.IframePattern, error) {
	patterns := make([]transform.IframePattern, 0, len(c.IframeHosts))
	for _, h := range c.IframeHosts {
		p := transform.IframePattern{
			Scheme:     h.Scheme,
			Host:       h.Host,
			PathPrefix: h.PathPrefix,
		}
		if h.PathPattern != "" {
			re, err := regexp.Compile(h.PathPattern)
			if err != nil {
				return nil, fmt.Errorf("compile iframe path pattern %q: %w", h.PathPattern, err)
			}
			p.PathPattern = re
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// PipelineOptions returns the render options for documents in locale.
// An empty locale uses the default locale.
func (c *Config) PipelineOptions(locale string, oracle transform.ExistenceOracle, logger *slog.Logger) (transform.Options, error) {
	patterns, err := c.IframePatterns()
	if err != nil {
		return transform.Options{}, err
	}
	if locale == "" {
		locale = c.Locale()
	}
	return transform.Options{
		BaseURL:        c.SiteURL(),
		Locale:         locale,
		TOCMaxLevel:    c.TOCMaxLevel,
		IframePatterns: patterns,
		Oracle:         oracle,
		LocaleSlug:     transform.NewLocaleSlugParser(c.Locales, c.Locale()),
		Sanitize:       c.Sanitize,
		Logger:         logger,
	}, nil
}
