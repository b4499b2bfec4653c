package source

import (
	"net/url"
	"path"
	"strconv"
	"strings"
)

// RouteKind classifies a link by the REST queries needed to load it.
type RouteKind int

const (
	KindHome RouteKind = iota
	KindCategory
	KindTag
	KindSearch
	KindPostType
)

func (k RouteKind) String() string {
	switch k {
	case KindHome:
		return "home"
	case KindCategory:
		return "category"
	case KindTag:
		return "tag"
	case KindSearch:
		return "search"
	case KindPostType:
		return "post-type"
	}
	return "unknown"
}

// Route is a parsed link.
type Route struct {
	Link  string
	Kind  RouteKind
	Base  string // path without the /page/N/ suffix
	Slug  string
	Page  int
	Query string // decoded search query
}

// SearchQuery returns the query in the "+"-joined form used in links.
func (r Route) SearchQuery() string {
	return strings.ReplaceAll(r.Query, " ", "+")
}

// NormalizeLink reduces a link (relative or absolute) to a cleaned path with a
// trailing slash. Only the "s" query parameter is kept.
func NormalizeLink(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "/"
	}
	p := u.Path
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = path.Clean(p)
	if p != "/" {
		p += "/"
	}
	if q := strings.TrimSpace(u.Query().Get("s")); q != "" {
		return p + "?s=" + url.QueryEscape(q)
	}
	return p
}

// ParseLink normalizes link and classifies it.
func ParseLink(link string) Route {
	link = NormalizeLink(link)
	r := Route{Link: link, Page: 1}

	p := link
	if i := strings.IndexByte(p, '?'); i >= 0 {
		if u, err := url.Parse(link); err == nil {
			r.Query = strings.TrimSpace(u.Query().Get("s"))
		}
		p = p[:i]
	}

	var segs []string
	if trimmed := strings.Trim(p, "/"); trimmed != "" {
		segs = strings.Split(trimmed, "/")
	}
	if n := len(segs); n >= 2 && segs[n-2] == "page" {
		if page, err := strconv.Atoi(segs[n-1]); err == nil && page > 0 {
			r.Page = page
			segs = segs[:n-2]
		}
	}
	r.Base = "/"
	if len(segs) > 0 {
		r.Base = "/" + strings.Join(segs, "/") + "/"
	}

	switch {
	case r.Query != "":
		r.Kind = KindSearch
	case len(segs) == 0:
		r.Kind = KindHome
	case segs[0] == "category" && len(segs) >= 2:
		r.Kind = KindCategory
		r.Slug = segs[len(segs)-1]
	case segs[0] == "tag" && len(segs) == 2:
		r.Kind = KindTag
		r.Slug = segs[1]
	default:
		r.Kind = KindPostType
		r.Slug = segs[len(segs)-1]
		r.Page = 1
	}
	return r
}

// PageLink returns the link of page n of the archive r belongs to.
func PageLink(r Route, n int) string {
	link := r.Base
	if n > 1 {
		link += "page/" + strconv.Itoa(n) + "/"
	}
	if r.Query != "" {
		link += "?s=" + url.QueryEscape(r.Query)
	}
	return link
}
