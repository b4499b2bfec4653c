package resolve

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressfront/source"
)

// panicStore fails the test if any entity or term is read.
type panicStore struct {
	t     *testing.T
	route source.RouteData
}

func (p panicStore) Route(string) (source.RouteData, bool) { return p.route, true }

func (p panicStore) Entity(string, int) (source.Entity, bool) {
	p.t.Fatal("entity read before route was ready")
	return source.Entity{}, false
}

func (p panicStore) Term(string, int) (source.Term, bool) {
	p.t.Fatal("term read before route was ready")
	return source.Term{}, false
}

func newsStore() *source.Store {
	s := source.NewStore()
	s.SetRoute(source.RouteData{Link: "/post-1/", Type: source.TypePost, ID: 1, IsReady: true, IsPostType: true})
	s.PutEntity(source.Entity{ID: 1, Type: source.TypePost, Categories: []int{5}, Tags: []int{}})
	s.PutTerm(source.Term{ID: 5, Taxonomy: source.TaxonomyCategory, Name: "News"})
	return s
}

func TestResolvePostEndToEnd(t *testing.T) {
	res, err := Resolve("/post-1", newsStore())
	require.NoError(t, err)
	require.True(t, res.Ready())

	v := res.View
	assert.Equal(t, 1, v.Entity.ID)
	assert.Equal(t, source.TypePost, v.Entity.Type)
	require.Len(t, v.Categories, 1)
	assert.Equal(t, "News", v.Categories[0].Term.Name)
	assert.Nil(t, v.Tags, "empty tag list should be omitted")

	assert.Equal(t, []Action{{Kind: ActionPrefetch, Link: "/"}}, res.FollowUps)
}

func TestResolveMatchesRouteTypeAndID(t *testing.T) {
	s := source.NewStore()
	s.PutEntity(source.Entity{ID: 3, Type: source.TypePage})
	s.PutEntity(source.Entity{ID: 3, Type: source.TypePost})
	s.SetRoute(source.RouteData{Link: "/about/", Type: source.TypePage, ID: 3, IsReady: true, IsPostType: true})

	res, err := Resolve("/about/", s)
	require.NoError(t, err)
	assert.Equal(t, 3, res.View.Entity.ID)
	assert.Equal(t, source.TypePage, res.View.Entity.Type)
}

func TestResolvePreservesTermOrder(t *testing.T) {
	s := source.NewStore()
	ids := []int{9, 2, 7, 2}
	for _, id := range []int{2, 7, 9} {
		s.PutTerm(source.Term{ID: id, Taxonomy: source.TaxonomyCategory})
	}
	s.PutEntity(source.Entity{ID: 1, Type: source.TypePost, Categories: ids})
	s.SetRoute(source.RouteData{Link: "/p/", Type: source.TypePost, ID: 1, IsReady: true})

	res, err := Resolve("/p/", s)
	require.NoError(t, err)
	require.Len(t, res.View.Categories, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, res.View.Categories[i].Term.ID)
	}
}

func TestResolveMissingTermKeepsSlot(t *testing.T) {
	s := source.NewStore()
	s.PutTerm(source.Term{ID: 1, Taxonomy: source.TaxonomyTag, Name: "a"})
	s.PutTerm(source.Term{ID: 3, Taxonomy: source.TaxonomyTag, Name: "c"})
	s.PutEntity(source.Entity{ID: 1, Type: source.TypePost, Tags: []int{1, 2, 3}})
	s.SetRoute(source.RouteData{Link: "/p/", Type: source.TypePost, ID: 1, IsReady: true})

	res, err := Resolve("/p/", s)
	require.NoError(t, err)
	tags := res.View.Tags
	require.Len(t, tags, 3)
	assert.True(t, tags[0].Found)
	assert.False(t, tags[1].Found)
	assert.Equal(t, 2, tags[1].ID)
	assert.True(t, tags[2].Found)

	found := Found(tags)
	require.Len(t, found, 2)
	assert.Equal(t, "c", found[1].Name)
}

func TestResolveNotReadyShortCircuits(t *testing.T) {
	store := panicStore{t: t, route: source.RouteData{Link: "/p/", Type: source.TypePost, ID: 1, IsFetching: true}}
	res, err := Resolve("/p/", store)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, res.Status)
	assert.Nil(t, res.View)
	assert.Empty(t, res.FollowUps)
}

func TestResolveUnknownRouteIsPending(t *testing.T) {
	res, err := Resolve("/nothing/", source.NewStore())
	require.NoError(t, err)
	assert.False(t, res.Ready())
}

func TestResolveMissingEntity(t *testing.T) {
	s := source.NewStore()
	s.SetRoute(source.RouteData{Link: "/p/", Type: source.TypePost, ID: 99, IsReady: true})

	_, err := Resolve("/p/", s)
	assert.True(t, errors.Is(err, ErrEntityMissing))
}

func TestResolveErrorRoute(t *testing.T) {
	s := source.NewStore()
	s.SetRoute(source.RouteData{Link: "/gone/", IsReady: true, IsError: true, ErrorStatus: http.StatusNotFound})

	_, err := Resolve("/gone/", s)
	var re *RouteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusNotFound, re.Status)
}

func TestResolveNonPostTypeHasNoFollowUps(t *testing.T) {
	s := source.NewStore()
	s.PutEntity(source.Entity{ID: 1, Type: source.TypePost})
	s.SetRoute(source.RouteData{Link: "/p/", Type: source.TypePost, ID: 1, IsReady: true})

	res, err := Resolve("/p/", s)
	require.NoError(t, err)
	assert.Empty(t, res.FollowUps)
}
