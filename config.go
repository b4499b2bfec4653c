package pressfront

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SiteConfig holds all configuration for a pressfront site. It is usually
// loaded from settings.yaml by LoadSettings; environment variables override
// the file.
type SiteConfig struct {
	Name        string `yaml:"name"        env:"SITE_NAME"`        // Site title (default "Blog")
	URL         string `yaml:"url"         env:"SITE_URL"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description" env:"SITE_DESCRIPTION"` // Used for RSS and meta tags
	Language    string `yaml:"language"    env:"SITE_LANGUAGE"`    // UI language, "de" (default) or "en"

	SourceURL string `yaml:"source_url" env:"SOURCE_URL"` // WordPress base URL, required
	PerPage   int    `yaml:"per_page"   env:"PER_PAGE"`   // Archive page size (default 10)

	Menu     []MenuItem     `yaml:"menu"`
	Featured FeaturedConfig `yaml:"featured"`
	Plugins  []string       `yaml:"plugins"`

	Addr string `yaml:"addr" env:"ADDR"` // Listen address (default ":3000")

	Cache CacheConfig `yaml:"cache"`

	AdminPassword string `yaml:"-" env:"ADMIN_PASSWORD"`       // Admin is disabled when empty
	SessionSecret string `yaml:"-" env:"ADMIN_SESSION_SECRET"` // Required when admin is enabled
	CookieSecure  bool   `yaml:"cookie_secure" env:"COOKIE_SECURE"`

	PrefetchWorkers int           `yaml:"prefetch_workers" env:"PREFETCH_WORKERS"` // Concurrent background fetches (default 4)
	PrefetchTimeout time.Duration `yaml:"prefetch_timeout" env:"PREFETCH_TIMEOUT"` // Per job (default 30s)

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"` // debug, info, warn, error (default "info")
	LogDev   bool   `yaml:"log_dev"   env:"LOG_DEV"`   // Console encoder
}

// FeaturedConfig toggles the featured image on listings and single posts.
type FeaturedConfig struct {
	ShowOnList bool `yaml:"show_on_list" env:"FEATURED_SHOW_ON_LIST"`
	ShowOnPost bool `yaml:"show_on_post" env:"FEATURED_SHOW_ON_POST"`
}

// CacheConfig selects the REST response cache layers. The memory layer is
// always on; at most one of SnapshotPath and RedisAddr backs it.
type CacheConfig struct {
	TTL          time.Duration `yaml:"ttl"           env:"CACHE_TTL"`           // Memory layer TTL and route max age (default 5min)
	SnapshotPath string        `yaml:"snapshot_path" env:"CACHE_SNAPSHOT_PATH"` // SQLite file
	SnapshotTTL  time.Duration `yaml:"snapshot_ttl"  env:"CACHE_SNAPSHOT_TTL"`  // default 24h
	RedisAddr    string        `yaml:"redis_addr"    env:"REDIS_ADDRESS"`
	RedisDB      int           `yaml:"redis_db"      env:"REDIS_DB"`
	RedisTTL     time.Duration `yaml:"redis_ttl"     env:"REDIS_TTL"`        // default 1h
	MaxRoutes    int           `yaml:"max_routes"    env:"CACHE_MAX_ROUTES"` // Routes kept in memory (default 10000)
}

// MenuItem is a header navigation entry. In YAML it is written either as a
// [label, link] pair or as a mapping with label and link keys.
type MenuItem struct {
	Label string `yaml:"label"`
	Link  string `yaml:"link"`
}

// UnmarshalYAML accepts both menu entry forms.
func (m *MenuItem) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("menu entry at line %d: want [label, link], got %d values", node.Line, len(pair))
		}
		m.Label, m.Link = pair[0], pair[1]
		return nil
	}
	type plain MenuItem
	return node.Decode((*plain)(m))
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Language == "" {
		c.Language = "de"
	}
	if c.PerPage <= 0 {
		c.PerPage = 10
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if len(c.Menu) == 0 {
		c.Menu = []MenuItem{{Label: "Home", Link: "/"}}
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.SnapshotTTL == 0 {
		c.Cache.SnapshotTTL = 24 * time.Hour
	}
	if c.Cache.RedisTTL == 0 {
		c.Cache.RedisTTL = time.Hour
	}
	if c.Cache.MaxRoutes <= 0 {
		c.Cache.MaxRoutes = 10000
	}
	if c.PrefetchWorkers <= 0 {
		c.PrefetchWorkers = 4
	}
	if c.PrefetchTimeout == 0 {
		c.PrefetchTimeout = 30 * time.Second
	}
	if c.Plugins == nil {
		c.Plugins = []string{PluginHTML}
	}
	c.Plugins = FilterEmpty(c.Plugins)
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// PluginHTML enables rewriting of rendered post HTML (internal links made
// relative, lazy images). It is on unless a plugins list omits it.
const PluginHTML = "html"

// AdminEnabled reports whether the admin routes are mounted.
func (c SiteConfig) AdminEnabled() bool {
	return c.AdminPassword != ""
}

// PluginEnabled reports whether name is listed under plugins.
func (c SiteConfig) PluginEnabled(name string) bool {
	for _, p := range c.Plugins {
		if p == name {
			return true
		}
	}
	return false
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the catch-all route is added.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the logger built from LogLevel and LogDev.
func WithLogger(log *zap.Logger) Option {
	return func(a *App) {
		a.Log = log
	}
}

// WithViews replaces the default theme components.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithHTTPClient sets the client used for REST requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) {
		a.httpClient = hc
	}
}
