package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pressfront/i18n"
)

// SearchPage renders search results inside the layout.
func SearchPage(site Site, meta PageMeta, search Search) templ.Component {
	return Layout(site, meta, SearchBody(site, search))
}

// SearchBody renders the result count and either the matching posts or,
// when nothing matched, a fresh search form.
func SearchBody(site Site, search Search) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := printer(site)
		h := newHTML(ctx, w)

		intro := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			ih := newHTML(ctx, w)
			ih.raw(`<div class="intro-text"><p>`)
			if search.Empty {
				ih.text(p.Sprintf(i18n.NoResults))
			} else {
				ih.text(p.Sprintf(i18n.ResultsFound, search.Total))
			}
			ih.raw(`</p></div>`)
			return ih.err
		})
		h.component(archiveHeader(p.Sprintf(i18n.Search), templ.EscapeString("“"+search.Query+"”"), intro))

		if search.Empty {
			h.raw(`<div class="search-container section-container thin">`)
			h.component(SearchForm(site, search.Query))
			h.raw(`</div>`)
			return h.err
		}
		h.component(archiveList(site, search.Archive))
		return h.err
	})
}
