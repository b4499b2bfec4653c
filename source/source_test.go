package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postOneJSON = `{
	"id": 1, "type": "post", "slug": "post-1", "link": "http://wp.test/post-1/",
	"title": {"rendered": "Post One"},
	"content": {"rendered": "<p>Hello</p>"},
	"categories": [5], "tags": [], "featured_media": 9,
	"_embedded": {
		"wp:featuredmedia": [{
			"id": 9, "type": "attachment", "title": {"rendered": "Pic"},
			"source_url": "http://wp.test/pic.jpg",
			"media_details": {"width": 1200, "height": 800, "sizes": {
				"thumbnail": {"source_url": "http://wp.test/pic-150.jpg", "width": 150, "height": 150},
				"full": {"source_url": "http://wp.test/pic.jpg", "width": 1200, "height": 800}
			}}
		}],
		"wp:term": [[{"id": 5, "taxonomy": "category", "name": "News", "slug": "news"}], []]
	}
}`

const postTwoJSON = `{"id": 2, "type": "post", "slug": "post-2", "link": "http://wp.test/post-2/",
	"title": {"rendered": "Post Two"}, "categories": [5], "tags": [8],
	"_embedded": {"wp:term": [[{"id": 5, "taxonomy": "category", "name": "News", "slug": "news"}],
		[{"id": 8, "taxonomy": "post_tag", "name": "Street", "slug": "street"}]]}}`

const aboutPageJSON = `{"id": 40, "type": "page", "slug": "about-us", "link": "http://wp.test/about-us/",
	"title": {"rendered": "About Us"}, "content": {"rendered": "<p>Us</p>"}}`

type fakeWP struct {
	*httptest.Server
	hits sync.Map // path -> *int64
}

func (f *fakeWP) count(path string) int64 {
	v, ok := f.hits.Load(path)
	if !ok {
		return 0
	}
	return atomic.LoadInt64(v.(*int64))
}

func newFakeWP(t *testing.T) *fakeWP {
	t.Helper()
	f := &fakeWP{}
	write := func(w http.ResponseWriter, body, total, pages string) {
		w.Header().Set("Content-Type", "application/json")
		if total != "" {
			w.Header().Set("X-WP-Total", total)
			w.Header().Set("X-WP-TotalPages", pages)
		}
		_, _ = w.Write([]byte(body))
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("slug") == "post-1":
			write(w, "["+postOneJSON+"]", "", "")
		case q.Get("slug") != "":
			write(w, "[]", "", "")
		case q.Get("search") == "foo bar":
			write(w, "[]", "0", "0")
		case q.Get("categories") == "5":
			write(w, "["+postTwoJSON+","+postOneJSON+"]", "2", "1")
		case q.Get("page") == "9":
			w.WriteHeader(http.StatusBadRequest)
			write(w, `{"code":"rest_post_invalid_page_number"}`, "", "")
		default:
			write(w, "["+postTwoJSON+","+postOneJSON+"]", "12", "2")
		}
	})
	mux.HandleFunc("/wp-json/wp/v2/pages", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") == "about-us" {
			write(w, "["+aboutPageJSON+"]", "", "")
			return
		}
		write(w, "[]", "", "")
	})
	mux.HandleFunc("/wp-json/wp/v2/media", func(w http.ResponseWriter, r *http.Request) {
		write(w, "[]", "", "")
	})
	mux.HandleFunc("/wp-json/wp/v2/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") == "news" {
			write(w, `[{"id": 5, "taxonomy": "category", "name": "News", "slug": "news"}]`, "", "")
			return
		}
		write(w, "[]", "", "")
	})
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, _ := f.hits.LoadOrStore(r.URL.Path, new(int64))
		atomic.AddInt64(v.(*int64), 1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func newTestSource(t *testing.T, f *fakeWP) *Source {
	t.Helper()
	client := NewClient(f.URL, WithMaxTries(1), WithMetrics(NewMetrics(prometheus.NewRegistry())))
	return New(client, NewStore(), 2, nil)
}

func TestFetchPostType(t *testing.T) {
	f := newFakeWP(t)
	src := newTestSource(t, f)

	require.NoError(t, src.Fetch(context.Background(), "/post-1"))

	d, ok := src.Store().Route("/post-1/")
	require.True(t, ok)
	assert.True(t, d.IsReady)
	assert.True(t, d.IsPostType)
	assert.Equal(t, TypePost, d.Type)
	assert.Equal(t, 1, d.ID)

	post, ok := src.Store().Entity(TypePost, 1)
	require.True(t, ok)
	assert.Equal(t, []int{5}, post.Categories)

	media, ok := src.Store().Entity(TypeAttachment, 9)
	require.True(t, ok)
	require.NotNil(t, media.MediaDetails)
	assert.Equal(t, "thumbnail", media.MediaDetails.Sizes[0].Name)

	_, ok = src.Store().Term(TaxonomyCategory, 5)
	assert.True(t, ok)
}

func TestFetchFallsBackToPages(t *testing.T) {
	f := newFakeWP(t)
	src := newTestSource(t, f)

	require.NoError(t, src.Fetch(context.Background(), "/about-us/"))

	d, _ := src.Store().Route("/about-us/")
	assert.Equal(t, TypePage, d.Type)
	assert.Equal(t, 40, d.ID)
}

func TestFetchUnknownSlugStoresErrorRoute(t *testing.T) {
	f := newFakeWP(t)
	src := newTestSource(t, f)

	err := src.Fetch(context.Background(), "/missing/")
	assert.True(t, errors.Is(err, ErrNotFound))

	d, ok := src.Store().Route("/missing/")
	require.True(t, ok)
	assert.True(t, d.IsReady)
	assert.True(t, d.IsError)
	assert.Equal(t, http.StatusNotFound, d.ErrorStatus)
}

func TestFetchHomeArchive(t *testing.T) {
	f := newFakeWP(t)
	src := newTestSource(t, f)

	require.NoError(t, src.Fetch(context.Background(), "/"))

	d, _ := src.Store().Route("/")
	assert.True(t, d.IsArchive)
	assert.True(t, d.IsHome)
	assert.Equal(t, 12, d.Total)
	assert.Equal(t, 2, d.TotalPages)
	require.Len(t, d.Items, 2)
	assert.Equal(t, 2, d.Items[0].ID)
	assert.Equal(t, "/post-2/", d.Items[0].Link)
	assert.Equal(t, 1, d.Items[1].ID)
}

func TestFetchArchivePastLastPage(t *testing.T) {
	f := newFakeWP(t)
	src := newTestSource(t, f)

	err := src.Fetch(context.Background(), "/page/9/")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFetchCategoryArchive(t *testing.T) {
	f := newFakeWP(t)
	src := newTestSource(t, f)

	require.NoError(t, src.Fetch(context.Background(), "/category/news/"))

	d, _ := src.Store().Route("/category/news/")
	assert.True(t, d.IsTaxonomy)
	assert.Equal(t, TaxonomyCategory, d.Type)
	assert.Equal(t, 5, d.ID)
	assert.Len(t, d.Items, 2)
}

func TestFetchSearch(t *testing.T) {
	f := newFakeWP(t)
	src := newTestSource(t, f)

	require.NoError(t, src.Fetch(context.Background(), "/?s=foo+bar"))

	d, _ := src.Store().Route("/?s=foo+bar")
	assert.True(t, d.IsSearch)
	assert.Equal(t, "foo+bar", d.SearchQuery)
	assert.Equal(t, 0, d.Total)
}

func TestFetchSkipsReadyRoute(t *testing.T) {
	f := newFakeWP(t)
	src := newTestSource(t, f)
	ctx := context.Background()

	require.NoError(t, src.Fetch(ctx, "/"))
	require.NoError(t, src.Fetch(ctx, "/"))
	assert.Equal(t, int64(1), f.count("/wp-json/wp/v2/posts"))

	require.NoError(t, src.Refresh(ctx, "/"))
	assert.Equal(t, int64(2), f.count("/wp-json/wp/v2/posts"))
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithMaxTries(3))
	_, err := c.Get(context.Background(), "posts", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"rest_forbidden"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithMaxTries(3))
	_, err := c.Get(context.Background(), "posts", nil)

	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusForbidden, he.Status)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]Response
}

func (m *mapCache) Get(_ context.Context, key string) (Response, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.entries[key]
	return r, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, resp Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = resp
	return nil
}

func (m *mapCache) Purge(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[string]Response{}
	return nil
}

func TestClientServesFromCache(t *testing.T) {
	f := newFakeWP(t)
	cache := &mapCache{entries: map[string]Response{}}
	c := NewClient(f.URL, WithCache(cache))
	ctx := context.Background()

	first, err := c.Get(ctx, "posts", nil)
	require.NoError(t, err)
	assert.Equal(t, 12, first.Total)

	second, err := c.Get(ctx, "posts", nil)
	require.NoError(t, err)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, int64(1), f.count("/wp-json/wp/v2/posts"))
}

func TestFetchReloadsAfterMaxAge(t *testing.T) {
	f := newFakeWP(t)
	client := NewClient(f.URL, WithMaxTries(1))
	src := New(client, NewStore(), 2, nil, WithMaxAge(time.Minute))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, src.Fetch(ctx, "/"))
	d, _ := src.Store().Route("/")
	assert.Equal(t, now, d.FetchedAt)

	now = now.Add(30 * time.Second)
	require.NoError(t, src.Fetch(ctx, "/"))
	assert.Equal(t, int64(1), f.count("/wp-json/wp/v2/posts"), "fresh route is not reloaded")

	now = now.Add(time.Minute)
	require.NoError(t, src.Fetch(ctx, "/"))
	assert.Equal(t, int64(2), f.count("/wp-json/wp/v2/posts"))
	d, _ = src.Store().Route("/")
	assert.Equal(t, now, d.FetchedAt)
}

func TestFetchKeepsStaleRouteWhenReloadFails(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("X-WP-Total", "1")
		w.Header().Set("X-WP-TotalPages", "1")
		_, _ = w.Write([]byte("[" + postTwoJSON + "]"))
	}))
	t.Cleanup(srv.Close)

	src := New(NewClient(srv.URL, WithMaxTries(1)), NewStore(), 2, nil, WithMaxAge(time.Minute))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, src.Fetch(ctx, "/"))
	fail.Store(true)
	now = now.Add(2 * time.Minute)

	require.NoError(t, src.Fetch(ctx, "/"))
	d, ok := src.Store().Route("/")
	require.True(t, ok)
	assert.True(t, d.IsReady)
	assert.Len(t, d.Items, 1)
}

func TestFetchSharedLoadSurvivesCancelledCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&hits, 1) == 1 {
			close(started)
		}
		<-release
		w.Header().Set("X-WP-Total", "1")
		w.Header().Set("X-WP-TotalPages", "1")
		_, _ = w.Write([]byte("[" + postTwoJSON + "]"))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() {
		select {
		case <-release:
		default:
			close(release)
		}
	})

	src := New(NewClient(srv.URL, WithMaxTries(1)), NewStore(), 2, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() { errA <- src.Fetch(ctxA, "/") }()
	<-started

	errB := make(chan error, 1)
	go func() { errB <- src.Fetch(context.Background(), "/") }()

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(release)
	select {
	case err := <-errB:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("live caller did not return")
	}

	d, ok := src.Store().Route("/")
	require.True(t, ok)
	assert.True(t, d.IsReady)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits), "both callers share one request")
}

func TestFetchBoundsStoredRoutes(t *testing.T) {
	f := newFakeWP(t)
	src := New(NewClient(f.URL, WithMaxTries(1)), NewStore(), 2, nil, WithMaxRoutes(3))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		err := src.Fetch(ctx, "/missing-"+strconv.Itoa(i)+"/")
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.LessOrEqual(t, src.Store().RouteCount(), 3)

	_, ok := src.Store().Route("/missing-9/")
	assert.True(t, ok, "newest route is kept")
}
