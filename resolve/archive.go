package resolve

import (
	"fmt"
	"strings"

	"github.com/eringen/pressfront/source"
)

// ArchiveView is a resolved list page.
type ArchiveView struct {
	Route    source.RouteData `json:"route"`
	Items    []View           `json:"items"`
	Term     *source.Term     `json:"term,omitempty"`
	PrevLink string           `json:"prevLink,omitempty"` // newer posts
	NextLink string           `json:"nextLink,omitempty"` // older posts
}

// ArchiveResult is the outcome of resolving an archive link.
type ArchiveResult struct {
	Status  Status       `json:"status"`
	Archive *ArchiveView `json:"archive,omitempty"`
}

// ResolveArchive resolves every item of a ready archive route in order. Items
// follow the same missing-entity policy as Resolve.
func ResolveArchive(link string, data DataContext) (ArchiveResult, error) {
	d, ok := data.Route(link)
	if !ok || !d.IsReady {
		return ArchiveResult{Status: StatusPending}, nil
	}
	if d.IsError {
		return ArchiveResult{}, &RouteError{Link: d.Link, Status: d.ErrorStatus}
	}
	if !d.IsArchive {
		return ArchiveResult{}, fmt.Errorf("resolve: %s is not an archive", d.Link)
	}

	items := make([]View, 0, len(d.Items))
	for _, ref := range d.Items {
		e, ok := data.Entity(ref.Type, ref.ID)
		if !ok {
			return ArchiveResult{}, fmt.Errorf("%w: %s %d", ErrEntityMissing, ref.Type, ref.ID)
		}
		items = append(items, ResolveItem(e, data))
	}

	a := &ArchiveView{Route: d, Items: items}
	if d.IsTaxonomy {
		if t, ok := data.Term(d.Type, d.ID); ok {
			a.Term = &t
		}
	}
	r := source.ParseLink(d.Link)
	if d.Page > 1 {
		a.PrevLink = source.PageLink(r, d.Page-1)
	}
	if d.Page < d.TotalPages {
		a.NextLink = source.PageLink(r, d.Page+1)
	}
	return ArchiveResult{Status: StatusReady, Archive: a}, nil
}

// SearchView is a resolved search page.
type SearchView struct {
	Query   string       `json:"query"` // display form
	Total   int          `json:"total"`
	Empty   bool         `json:"empty"`
	Archive *ArchiveView `json:"archive,omitempty"`
}

// SearchResult is the outcome of resolving a search link.
type SearchResult struct {
	Status Status      `json:"status"`
	Search *SearchView `json:"search,omitempty"`
}

// ResolveSearch resolves a search route. With no matches the view is Empty
// and carries no archive; renderers show the search form instead of a list.
func ResolveSearch(link string, data DataContext) (SearchResult, error) {
	ar, err := ResolveArchive(link, data)
	if err != nil {
		return SearchResult{}, err
	}
	if !ar.Ready() {
		return SearchResult{Status: StatusPending}, nil
	}
	d := ar.Archive.Route
	v := &SearchView{
		Query: DisplayQuery(d.SearchQuery),
		Total: d.Total,
		Empty: d.Total == 0,
	}
	if !v.Empty {
		v.Archive = ar.Archive
	}
	return SearchResult{Status: StatusReady, Search: v}, nil
}

// Ready reports whether the result carries an archive.
func (r ArchiveResult) Ready() bool {
	return r.Status == StatusReady
}

// Ready reports whether the result carries a search view.
func (r SearchResult) Ready() bool {
	return r.Status == StatusReady
}

// DisplayQuery turns the "+"-joined query of a search link back into words.
// Every plus becomes a space, so a query that contained a literal plus is
// shown without it; the upstream search still receives the original query.
func DisplayQuery(q string) string {
	return strings.ReplaceAll(q, "+", " ")
}
