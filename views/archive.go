package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pressfront/i18n"
)

// ArchivePage renders a listing inside the layout.
func ArchivePage(site Site, meta PageMeta, archive Archive) templ.Component {
	return Layout(site, meta, ArchiveBody(site, archive))
}

// ArchiveBody renders the archive header, its items and pagination.
func ArchiveBody(site Site, archive Archive) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		if archive.Heading != "" {
			h.component(archiveHeader(archive.Label, archive.Heading, nil))
		}
		h.component(archiveList(site, archive))
		return h.err
	})
}

func archiveHeader(label, heading string, intro templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<header class="archive-header"><div class="section-container"><h1 class="archive-title">`)
		if label != "" {
			h.raw(`<span class="archive-label">`)
			h.text(label)
			h.raw(`</span> `)
		}
		h.raw(`<span>`, heading, `</span></h1>`)
		h.component(intro)
		h.raw(`</div></header>`)
		return h.err
	})
}

func archiveList(site Site, archive Archive) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := printer(site)
		h := newHTML(ctx, w)
		h.raw(`<div class="archive-items">`)
		for _, item := range archive.Items {
			h.component(PostItem(site, item))
		}
		h.raw(`</div>`)
		if archive.PrevLink == "" && archive.NextLink == "" {
			return h.err
		}
		h.raw(`<nav class="pagination">`)
		if archive.NextLink != "" {
			h.raw(`<a class="older" href="`)
			h.url(archive.NextLink)
			h.raw(`">&larr; `)
			h.text(p.Sprintf(i18n.OlderPosts))
			h.raw(`</a>`)
		}
		if archive.PrevLink != "" {
			h.raw(`<a class="newer" href="`)
			h.url(archive.PrevLink)
			h.raw(`">`)
			h.text(p.Sprintf(i18n.NewerPosts))
			h.raw(` &rarr;</a>`)
		}
		h.raw(`</nav>`)
		return h.err
	})
}
