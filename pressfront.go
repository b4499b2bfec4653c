// Package pressfront is a server-rendered, themed front-end for a headless
// WordPress site built with Go, Echo, and templ.
//
// It fetches content from the WordPress REST API, resolves each requested
// link to its post, page or listing, and renders it with the theme in
// package views. Sites can swap any component through ViewFuncs.
package pressfront

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/eringen/pressfront/htmlproc"
	"github.com/eringen/pressfront/resolve"
	"github.com/eringen/pressfront/source"
	"github.com/eringen/pressfront/views"
)

// App is the central pressfront application. It wires together the REST
// source, the response caches, the dispatcher, handlers, middleware, and
// the view components.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Log     *zap.Logger
	Metrics *Metrics
	Views   ViewFuncs

	Client *source.Client
	Source *source.Source
	Store  *source.Store
	Cache  *MemoryCache

	dispatcher   *Dispatcher
	html         *htmlproc.Processor
	snapshots    *SnapshotStore
	redis        *RedisCache
	loginLimiter *LoginLimiter
	httpClient   *http.Client
	customRoutes []func(*App)
	staticDir    string
	ready        bool
}

// New creates a new pressfront App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     DefaultViews(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	a.Views.fill()
	return a
}

// Setup initializes the caches, the REST source, middleware and routes
// without starting the listener. Start calls it; tests and the resolve
// command call it directly.
func (a *App) Setup(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if a.Config.SourceURL == "" {
		return errors.New("pressfront: SourceURL is required")
	}
	if a.Config.AdminEnabled() && a.Config.SessionSecret == "" {
		return errors.New("pressfront: SessionSecret is required when AdminPassword is set")
	}

	if a.Log == nil {
		l, err := NewLogger(a.Config.LogLevel, a.Config.LogDev)
		if err != nil {
			return err
		}
		a.Log = l
	}
	a.Metrics = NewMetrics()

	if err := a.setupCache(ctx); err != nil {
		return err
	}

	clientOpts := []source.ClientOption{
		source.WithCache(a.Cache),
		source.WithLogger(a.Log.Named("source")),
		source.WithMetrics(source.NewMetrics(a.Metrics.Registry)),
	}
	if a.httpClient != nil {
		clientOpts = append(clientOpts, source.WithHTTPClient(a.httpClient))
	}
	a.Client = source.NewClient(a.Config.SourceURL, clientOpts...)
	a.Store = source.NewStore()
	a.Source = source.New(a.Client, a.Store, a.Config.PerPage, a.Log.Named("source"),
		source.WithMaxAge(a.Config.Cache.TTL),
		source.WithMaxRoutes(a.Config.Cache.MaxRoutes),
	)
	a.dispatcher = NewDispatcher(a.Source, a.Config.PrefetchWorkers, a.Config.PrefetchTimeout, a.Log.Named("dispatch"), a.Metrics)

	html, err := htmlproc.New(a.Config.SourceURL)
	if err != nil {
		return err
	}
	a.html = html
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	a.ready = true
	return nil
}

func (a *App) setupCache(ctx context.Context) error {
	var next source.Cache
	switch c := a.Config.Cache; {
	case c.RedisAddr != "":
		rc, err := NewRedisCache(ctx, c.RedisAddr, c.RedisDB, c.RedisTTL)
		if err != nil {
			return err
		}
		a.redis = rc
		next = rc
	case c.SnapshotPath != "":
		s, err := NewSnapshotStore(c.SnapshotPath, c.SnapshotTTL)
		if err != nil {
			return fmt.Errorf("pressfront: init snapshots: %w", err)
		}
		if n, err := s.Prune(ctx); err != nil {
			a.Log.Warn("snapshot prune failed", zap.Error(err))
		} else if n > 0 {
			a.Log.Info("pruned expired snapshots", zap.Int64("rows", n))
		}
		a.snapshots = s
		next = s
	}
	a.Cache = NewMemoryCache(a.Config.Cache.TTL, next)
	return nil
}

// cacheBackend names the layer behind the memory cache.
func (a *App) cacheBackend() string {
	switch {
	case a.redis != nil:
		return "memory + redis " + a.Config.Cache.RedisAddr
	case a.snapshots != nil:
		return "memory + sqlite " + a.Config.Cache.SnapshotPath
	}
	return "memory"
}

// Start sets the App up and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(context.Background()); err != nil {
		return err
	}
	a.Log.Info("starting",
		zap.String("addr", a.Config.Addr),
		zap.String("source", a.Config.SourceURL),
		zap.String("cache", a.cacheBackend()),
	)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server and waits for background prefetches.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if a.dispatcher != nil {
		if derr := a.dispatcher.Close(ctx); derr != nil && err == nil {
			err = derr
		}
	}
	return err
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded theme assets are served under /public/ and fall through to
	// the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/theme.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.Metrics.Registry, promhttp.HandlerOpts{})))

	if a.Config.AdminEnabled() {
		e.GET("/admin/", a.handleAdmin)
		e.POST("/admin/login/", a.handleAdminLogin)
		e.POST("/admin/logout/", handleAdminLogout)
		e.POST("/admin/purge/", a.handleAdminPurge)
	}

	for _, fn := range a.customRoutes {
		fn(a)
	}

	// Everything else is a WordPress link.
	e.GET("/*", a.handleRoute)
}

// ErrUpstream wraps fetch failures other than not found.
var ErrUpstream = errors.New("pressfront: upstream unavailable")

// Resolution is what a link resolves to. Once Status is ready exactly one of
// Post, Archive and Search is set.
type Resolution struct {
	Status    resolve.Status       `json:"status"`
	Route     source.RouteData     `json:"route"`
	Post      *resolve.View        `json:"post,omitempty"`
	Archive   *resolve.ArchiveView `json:"archive,omitempty"`
	Search    *resolve.SearchView  `json:"search,omitempty"`
	FollowUps []resolve.Action     `json:"followUps,omitempty"`
}

// Ready reports whether the resolution carries a view.
func (r Resolution) Ready() bool {
	return r.Status == resolve.StatusReady
}

// ResolveLink fetches link and resolves it as a post type, archive or search
// depending on its route data. Fetch failures other than not found wrap
// ErrUpstream; error routes yield a *resolve.RouteError. The result is
// pending only if the fetch did not complete.
func (a *App) ResolveLink(ctx context.Context, link string) (Resolution, error) {
	if err := a.Source.Fetch(ctx, link); err != nil && !errors.Is(err, source.ErrNotFound) {
		return Resolution{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	d, ok := a.Store.Route(link)
	if !ok || !d.IsReady {
		return Resolution{Status: resolve.StatusPending, Route: d}, nil
	}
	out := Resolution{Route: d}
	switch {
	case d.IsSearch:
		r, err := resolve.ResolveSearch(link, a.Store)
		out.Status, out.Search = r.Status, r.Search
		return out, err
	case d.IsArchive:
		r, err := resolve.ResolveArchive(link, a.Store)
		out.Status, out.Archive = r.Status, r.Archive
		return out, err
	}
	r, err := resolve.Resolve(link, a.Store)
	out.Status, out.Post, out.FollowUps = r.Status, r.View, r.FollowUps
	return out, err
}

// Purge clears the response caches and the content store.
func (a *App) Purge(ctx context.Context) error {
	a.Store.Reset()
	if err := a.Cache.Purge(ctx); err != nil {
		return err
	}
	a.Metrics.purged()
	return nil
}

// Site returns the site settings passed to every view.
func (a *App) Site() views.Site {
	menu := make([]views.MenuItem, len(a.Config.Menu))
	for i, m := range a.Config.Menu {
		menu[i] = views.MenuItem{Label: m.Label, Link: source.NormalizeLink(m.Link)}
	}
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Language:    a.Config.Language,
		Menu:        menu,
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var errs []error
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.snapshots != nil {
		errs = append(errs, a.snapshots.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.Log != nil {
		_ = a.Log.Sync()
	}
	return errors.Join(errs...)
}
