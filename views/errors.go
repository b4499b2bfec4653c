package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pressfront/i18n"
)

// NotFound renders the 404 page.
func NotFound(site Site) templ.Component {
	return statusPage(site, i18n.NotFound, i18n.NotFoundText)
}

// ServerError renders the 500 page.
func ServerError(site Site) templ.Component {
	return statusPage(site, i18n.ServerError, i18n.ServerText)
}

// Pending renders the page shown while a route is still loading.
func Pending(site Site) templ.Component {
	return statusPage(site, i18n.NotReady, i18n.ServerText)
}

func statusPage(site Site, heading, text string) templ.Component {
	p := printer(site)
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<section class="status-page section-container thin"><h1>`)
		h.text(p.Sprintf(heading))
		h.raw(`</h1><p>`)
		h.text(p.Sprintf(text))
		h.raw(`</p><p><a href="/">`)
		h.text(p.Sprintf(i18n.BackHome))
		h.raw(`</a></p>`)
		h.component(SearchForm(site, ""))
		h.raw(`</section>`)
		return h.err
	})
	return Layout(site, PageMeta{Title: p.Sprintf(heading), NoIndex: true}, body)
}
