package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressfront/source"
)

func archiveStore(page, totalPages int) *source.Store {
	s := source.NewStore()
	s.PutTerm(source.Term{ID: 5, Taxonomy: source.TaxonomyCategory, Name: "News", Slug: "news"})
	s.PutEntity(source.Entity{ID: 2, Type: source.TypePost, Categories: []int{5}})
	s.PutEntity(source.Entity{ID: 1, Type: source.TypePost, Categories: []int{5}, Tags: []int{8}})
	link := "/category/news/"
	if page > 1 {
		link = source.PageLink(source.ParseLink(link), page)
	}
	s.SetRoute(source.RouteData{
		Link:       link,
		Type:       source.TaxonomyCategory,
		ID:         5,
		IsReady:    true,
		IsArchive:  true,
		IsTaxonomy: true,
		Page:       page,
		Total:      25,
		TotalPages: totalPages,
		Items: []source.ItemRef{
			{Type: source.TypePost, ID: 2},
			{Type: source.TypePost, ID: 1},
		},
	})
	return s
}

func TestResolveArchiveKeepsItemOrder(t *testing.T) {
	res, err := ResolveArchive("/category/news/", archiveStore(1, 3))
	require.NoError(t, err)
	require.True(t, res.Ready())

	a := res.Archive
	require.Len(t, a.Items, 2)
	assert.Equal(t, 2, a.Items[0].Entity.ID)
	assert.Equal(t, 1, a.Items[1].Entity.ID)
	assert.Nil(t, a.Items[0].Tags)
	require.Len(t, a.Items[1].Tags, 1)
	assert.False(t, a.Items[1].Tags[0].Found)

	require.NotNil(t, a.Term)
	assert.Equal(t, "News", a.Term.Name)
}

func TestResolveArchivePagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		prev       string
		next       string
	}{
		{"first", 1, 3, "", "/category/news/page/2/"},
		{"middle", 2, 3, "/category/news/", "/category/news/page/3/"},
		{"last", 3, 3, "/category/news/page/2/", ""},
		{"single", 1, 1, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := archiveStore(tt.page, tt.totalPages)
			link := source.PageLink(source.ParseLink("/category/news/"), tt.page)
			res, err := ResolveArchive(link, s)
			require.NoError(t, err)
			assert.Equal(t, tt.prev, res.Archive.PrevLink)
			assert.Equal(t, tt.next, res.Archive.NextLink)
		})
	}
}

func TestResolveArchiveMissingItem(t *testing.T) {
	s := source.NewStore()
	s.SetRoute(source.RouteData{
		Link:      "/",
		IsReady:   true,
		IsArchive: true,
		IsHome:    true,
		Page:      1,
		Items:     []source.ItemRef{{Type: source.TypePost, ID: 42}},
	})
	_, err := ResolveArchive("/", s)
	assert.True(t, errors.Is(err, ErrEntityMissing))
}

func TestResolveArchivePending(t *testing.T) {
	res, err := ResolveArchive("/", source.NewStore())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, res.Status)
	assert.Nil(t, res.Archive)
}

func TestResolveArchiveRejectsPostType(t *testing.T) {
	res, err := ResolveArchive("/post-1/", newsStore())
	assert.Error(t, err)
	assert.Nil(t, res.Archive)
}

func TestDisplayQuery(t *testing.T) {
	assert.Equal(t, "foo bar", DisplayQuery("foo+bar"))
	assert.Equal(t, "a b c", DisplayQuery("a+b+c"))
	assert.Equal(t, "plain", DisplayQuery("plain"))

	// A literal plus cannot be told apart from a joined space.
	q := source.ParseLink("/?s=c%2B%2B").SearchQuery()
	assert.Equal(t, "c++", q)
	assert.Equal(t, "c  ", DisplayQuery(q))
}

func TestResolveSearchEmpty(t *testing.T) {
	s := source.NewStore()
	s.SetRoute(source.RouteData{
		Link:        "/?s=foo+bar",
		IsReady:     true,
		IsArchive:   true,
		IsSearch:    true,
		SearchQuery: "foo+bar",
		Page:        1,
	})

	res, err := ResolveSearch("/?s=foo+bar", s)
	require.NoError(t, err)
	require.True(t, res.Ready())
	assert.Equal(t, "foo bar", res.Search.Query)
	assert.True(t, res.Search.Empty)
	assert.Zero(t, res.Search.Total)
	assert.Nil(t, res.Search.Archive)
}

func TestResolveSearchWithResults(t *testing.T) {
	s := source.NewStore()
	s.PutEntity(source.Entity{ID: 1, Type: source.TypePost})
	s.SetRoute(source.RouteData{
		Link:        "/?s=go",
		IsReady:     true,
		IsArchive:   true,
		IsSearch:    true,
		SearchQuery: "go",
		Page:        1,
		Total:       1,
		TotalPages:  1,
		Items:       []source.ItemRef{{Type: source.TypePost, ID: 1}},
	})

	res, err := ResolveSearch("/?s=go", s)
	require.NoError(t, err)
	assert.False(t, res.Search.Empty)
	assert.Equal(t, 1, res.Search.Total)
	require.NotNil(t, res.Search.Archive)
	assert.Len(t, res.Search.Archive.Items, 1)
}
