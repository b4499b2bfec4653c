// Package resolve turns a link and a snapshot of fetched content into the
// denormalized view a page renders: the entity plus its categories and tags.
//
// Resolution is pure. It never fetches; work that should follow a render is
// returned as Actions for the caller to run.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/eringen/pressfront/source"
)

// ErrEntityMissing is returned when a ready route points at an entity the
// data context does not hold.
var ErrEntityMissing = errors.New("resolve: entity missing")

// RouteError reports a route that finished loading with an error status.
type RouteError struct {
	Link   string
	Status int
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("resolve: route %s failed with status %d", e.Link, e.Status)
}

// DataContext is the read-only view of fetched content. *source.Store
// implements it.
type DataContext interface {
	Route(link string) (source.RouteData, bool)
	Entity(typ string, id int) (source.Entity, bool)
	Term(taxonomy string, id int) (source.Term, bool)
}

// Actions issues background work. *source.Source implements it.
type Actions interface {
	Fetch(ctx context.Context, link string) error
}

// ActionKind names a follow-up action.
type ActionKind string

// ActionPrefetch asks for a link to be loaded ahead of a visit.
const ActionPrefetch ActionKind = "prefetch"

// Action is follow-up work suggested by a resolution.
type Action struct {
	Kind ActionKind `json:"kind"`
	Link string     `json:"link"`
}

// Status tells whether a route could be resolved yet.
type Status int

const (
	StatusPending Status = iota
	StatusReady
)

func (s Status) String() string {
	if s == StatusReady {
		return "ready"
	}
	return "pending"
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ResolvedTerm is one slot of a resolved category or tag list. A term id with
// no record in the data context keeps its slot with Found set to false.
type ResolvedTerm struct {
	ID    int         `json:"id"`
	Term  source.Term `json:"term"`
	Found bool        `json:"found"`
}

// View is an entity with its terms looked up. Categories and Tags are nil
// when the entity lists no ids.
type View struct {
	Entity     source.Entity  `json:"entity"`
	Categories []ResolvedTerm `json:"categories,omitempty"`
	Tags       []ResolvedTerm `json:"tags,omitempty"`
}

// Result is the outcome of resolving a link.
type Result struct {
	Status    Status           `json:"status"`
	Route     source.RouteData `json:"route"`
	View      *View            `json:"view,omitempty"`
	FollowUps []Action         `json:"followUps,omitempty"`
}

// Ready reports whether the result carries a view.
func (r Result) Ready() bool {
	return r.Status == StatusReady
}

// Resolve looks up the route data for link and, once it is ready, the entity
// it points at along with its terms. A missing or unready route yields a
// pending result; no entity field is read in that case.
//
// A ready post-type view suggests prefetching the home page.
func Resolve(link string, data DataContext) (Result, error) {
	d, ok := data.Route(link)
	if !ok || !d.IsReady {
		return Result{Status: StatusPending, Route: d}, nil
	}
	if d.IsError {
		return Result{}, &RouteError{Link: d.Link, Status: d.ErrorStatus}
	}

	e, ok := data.Entity(d.Type, d.ID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s %d", ErrEntityMissing, d.Type, d.ID)
	}

	view := ResolveItem(e, data)
	res := Result{Status: StatusReady, Route: d, View: &view}
	if d.IsPostType {
		res.FollowUps = []Action{{Kind: ActionPrefetch, Link: "/"}}
	}
	return res, nil
}

// ResolveItem builds the view for an entity already in hand.
func ResolveItem(e source.Entity, data DataContext) View {
	return View{
		Entity:     e,
		Categories: resolveTerms(source.TaxonomyCategory, e.Categories, data),
		Tags:       resolveTerms(source.TaxonomyTag, e.Tags, data),
	}
}

func resolveTerms(taxonomy string, ids []int, data DataContext) []ResolvedTerm {
	if len(ids) == 0 {
		return nil
	}
	out := make([]ResolvedTerm, len(ids))
	for i, id := range ids {
		t, ok := data.Term(taxonomy, id)
		out[i] = ResolvedTerm{ID: id, Term: t, Found: ok}
	}
	return out
}

// Found returns the terms that were found, in order.
func Found(terms []ResolvedTerm) []source.Term {
	var out []source.Term
	for _, t := range terms {
		if t.Found {
			out = append(out, t.Term)
		}
	}
	return out
}
