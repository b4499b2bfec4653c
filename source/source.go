package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultPerPage is the archive page size when none is configured.
const DefaultPerPage = 10

const (
	defaultLoadTimeout = 30 * time.Second
	defaultMaxRoutes   = 10000
)

// postTypeEndpoints are tried in priority order when resolving a slug.
var postTypeEndpoints = []string{"posts", "pages", "media"}

// Source loads links into a Store.
type Source struct {
	client      *Client
	store       *Store
	perPage     int
	log         *zap.Logger
	flight      singleflight.Group
	maxAge      time.Duration
	maxRoutes   int
	loadTimeout time.Duration
	now         func() time.Time
}

// Option configures a Source.
type Option func(*Source)

// WithMaxAge makes Fetch reload routes older than d. Zero keeps routes until
// they are evicted or the store is reset.
func WithMaxAge(d time.Duration) Option {
	return func(s *Source) { s.maxAge = d }
}

// WithMaxRoutes caps how many routes the store keeps (default 10000).
func WithMaxRoutes(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxRoutes = n
		}
	}
}

// WithLoadTimeout bounds a single shared load (default 30s).
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

// New creates a Source that fetches through client and writes into store.
func New(client *Client, store *Store, perPage int, log *zap.Logger, opts ...Option) *Source {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Source{
		client:      client,
		store:       store,
		perPage:     perPage,
		log:         log,
		maxRoutes:   defaultMaxRoutes,
		loadTimeout: defaultLoadTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the store the source writes into.
func (s *Source) Store() *Store {
	return s.store
}

// Fetch loads link unless its route data is ready and younger than the max
// age. Concurrent calls for the same link share one load, which runs apart
// from any single caller's context; a caller that gives up gets its own
// context error while the others keep waiting. A link the API has no record
// for is stored as a ready error route and ErrNotFound is returned.
//
// When reloading a stale route fails for any reason other than not found, the
// stale copy is kept and Fetch returns nil.
func (s *Source) Fetch(ctx context.Context, link string) error {
	return s.fetch(ctx, link, false)
}

// Refresh reloads link even if it is ready.
func (s *Source) Refresh(ctx context.Context, link string) error {
	return s.fetch(ctx, link, true)
}

// fresh reports whether d can be served without reloading.
func (s *Source) fresh(d RouteData) bool {
	return s.maxAge <= 0 || s.now().Sub(d.FetchedAt) < s.maxAge
}

func (s *Source) fetch(ctx context.Context, link string, force bool) error {
	link = NormalizeLink(link)
	prev, ok := s.store.Route(link)
	if !force && ok && prev.IsReady && s.fresh(prev) {
		return nil
	}

	ch := s.flight.DoChan(link, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		return nil, s.load(lctx, ParseLink(link))
	})

	var err error
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		err = res.Err
	}
	if err != nil && !errors.Is(err, ErrNotFound) && ok && prev.IsReady && !prev.IsError {
		s.log.Warn("serving stale route", zap.String("link", link), zap.Error(err))
		return nil
	}
	return err
}

func (s *Source) load(ctx context.Context, r Route) error {
	if _, ok := s.store.Route(r.Link); !ok {
		s.store.SetRoute(RouteData{Link: r.Link, IsFetching: true})
	}

	var (
		d   RouteData
		err error
	)
	switch r.Kind {
	case KindPostType:
		d, err = s.loadPostType(ctx, r)
	case KindCategory:
		d, err = s.loadTaxonomy(ctx, r, "categories", TaxonomyCategory)
	case KindTag:
		d, err = s.loadTaxonomy(ctx, r, "tags", TaxonomyTag)
	case KindSearch:
		d, err = s.loadArchive(ctx, r, url.Values{"search": {r.Query}}, RouteData{
			IsSearch:    true,
			SearchQuery: r.SearchQuery(),
		})
	default:
		d, err = s.loadArchive(ctx, r, url.Values{}, RouteData{IsHome: true})
	}

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.store.SetRoute(RouteData{
				Link:        r.Link,
				IsReady:     true,
				IsError:     true,
				ErrorStatus: http.StatusNotFound,
				FetchedAt:   s.now(),
			})
			s.evict()
			return err
		}
		if prev, ok := s.store.Route(r.Link); ok && !prev.IsReady {
			s.store.DeleteRoute(r.Link)
		}
		s.log.Warn("fetch failed", zap.String("link", r.Link), zap.Stringer("kind", r.Kind), zap.Error(err))
		return err
	}

	d.Link = r.Link
	d.IsReady = true
	d.FetchedAt = s.now()
	s.store.SetRoute(d)
	s.evict()
	s.log.Debug("fetched", zap.String("link", r.Link), zap.Stringer("kind", r.Kind))
	return nil
}

// evict keeps the route map bounded once it grows past the limit: expired
// routes go first, then the oldest.
func (s *Source) evict() {
	if s.store.RouteCount() <= s.maxRoutes {
		return
	}
	var cutoff time.Time
	if s.maxAge > 0 {
		cutoff = s.now().Add(-s.maxAge)
	}
	if n := s.store.EvictRoutes(cutoff, s.maxRoutes); n > 0 {
		s.log.Debug("evicted routes", zap.Int("count", n))
	}
}

func (s *Source) loadPostType(ctx context.Context, r Route) (RouteData, error) {
	found := make([][]Entity, len(postTypeEndpoints))
	g, gctx := errgroup.WithContext(ctx)
	for i, endpoint := range postTypeEndpoints {
		g.Go(func() error {
			resp, err := s.client.Get(gctx, endpoint, url.Values{
				"slug":   {r.Slug},
				"_embed": {"true"},
			})
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			var list []Entity
			if err := json.Unmarshal(resp.Body, &list); err != nil {
				return fmt.Errorf("source: decode %s: %w", endpoint, err)
			}
			found[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RouteData{}, err
	}

	for _, list := range found {
		if len(list) == 0 {
			continue
		}
		e := list[0]
		s.store.PutEntity(e)
		return RouteData{Type: e.Type, ID: e.ID, IsPostType: true}, nil
	}
	return RouteData{}, fmt.Errorf("%w: %s", ErrNotFound, r.Link)
}

func (s *Source) loadTaxonomy(ctx context.Context, r Route, endpoint, taxonomy string) (RouteData, error) {
	term, ok := s.store.TermBySlug(taxonomy, r.Slug)
	if !ok {
		resp, err := s.client.Get(ctx, endpoint, url.Values{"slug": {r.Slug}})
		if err != nil {
			return RouteData{}, err
		}
		var terms []Term
		if err := json.Unmarshal(resp.Body, &terms); err != nil {
			return RouteData{}, fmt.Errorf("source: decode %s: %w", endpoint, err)
		}
		if len(terms) == 0 {
			return RouteData{}, fmt.Errorf("%w: %s", ErrNotFound, r.Link)
		}
		term = terms[0]
		if term.Taxonomy == "" {
			term.Taxonomy = taxonomy
		}
		s.store.PutTerm(term)
	}

	return s.loadArchive(ctx, r, url.Values{endpoint: {strconv.Itoa(term.ID)}}, RouteData{
		Type:       taxonomy,
		ID:         term.ID,
		IsTaxonomy: true,
	})
}

func (s *Source) loadArchive(ctx context.Context, r Route, params url.Values, d RouteData) (RouteData, error) {
	params.Set("_embed", "true")
	params.Set("page", strconv.Itoa(r.Page))
	params.Set("per_page", strconv.Itoa(s.perPage))

	resp, err := s.client.Get(ctx, "posts", params)
	if err != nil {
		// Pages past the end are reported as 400 rest_post_invalid_page_number.
		var he *HTTPError
		if errors.As(err, &he) && he.Status == http.StatusBadRequest && r.Page > 1 {
			return RouteData{}, fmt.Errorf("%w: %s", ErrNotFound, r.Link)
		}
		return RouteData{}, err
	}

	var list []Entity
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return RouteData{}, fmt.Errorf("source: decode posts: %w", err)
	}
	refs := make([]ItemRef, 0, len(list))
	for _, e := range list {
		s.store.PutEntity(e)
		refs = append(refs, ItemRef{Type: e.Type, ID: e.ID, Link: NormalizeLink(e.Link)})
	}

	d.IsArchive = true
	d.Page = r.Page
	d.Items = refs
	d.Total = resp.Total
	d.TotalPages = resp.TotalPages
	return d, nil
}
