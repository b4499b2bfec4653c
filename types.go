package pressfront

import (
	"github.com/a-h/templ"

	"github.com/eringen/pressfront/views"
)

// ViewFuncs holds the templ components the App calls when rendering pages.
// DefaultViews returns the built-in theme; sites can replace any of them
// with WithViews.
type ViewFuncs struct {
	Post           func(site views.Site, meta views.PageMeta, post views.Post) templ.Component
	Archive        func(site views.Site, meta views.PageMeta, archive views.Archive) templ.Component
	Search         func(site views.Site, meta views.PageMeta, search views.Search) templ.Component
	NotFound       func(site views.Site) templ.Component
	ServerError    func(site views.Site) templ.Component
	Pending        func(site views.Site) templ.Component
	AdminLogin     func(site views.Site, showError bool, csrfToken string) templ.Component
	AdminDashboard func(site views.Site, stats views.AdminStats, message, csrfToken string) templ.Component
}

// DefaultViews returns the built-in theme components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Post:           views.PostPage,
		Archive:        views.ArchivePage,
		Search:         views.SearchPage,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
		Pending:        views.Pending,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
	}
}

// fill replaces missing components with the defaults.
func (v *ViewFuncs) fill() {
	d := DefaultViews()
	if v.Post == nil {
		v.Post = d.Post
	}
	if v.Archive == nil {
		v.Archive = d.Archive
	}
	if v.Search == nil {
		v.Search = d.Search
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
	if v.Pending == nil {
		v.Pending = d.Pending
	}
	if v.AdminLogin == nil {
		v.AdminLogin = d.AdminLogin
	}
	if v.AdminDashboard == nil {
		v.AdminDashboard = d.AdminDashboard
	}
}
