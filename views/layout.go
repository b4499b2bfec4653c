package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/pressfront/i18n"
)

// Layout wraps body in the theme's document shell: head metadata, header
// with the menu and search form, and footer.
func Layout(site Site, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := printer(site)
		h := newHTML(ctx, w)
		lang := i18n.Match(site.Language).String()

		title := site.Name
		if meta.Title != "" && meta.Title != site.Name {
			title = meta.Title + " | " + site.Name
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw(`<!DOCTYPE html><html lang="`, lang, `"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title>`)
		if meta.Description != "" {
			h.raw(`<meta name="description" content="`)
			h.text(meta.Description)
			h.raw(`">`)
		}
		if meta.NoIndex {
			h.raw(`<meta name="robots" content="noindex">`)
		}
		if meta.URL != "" {
			h.raw(`<link rel="canonical" href="`)
			h.url(meta.URL)
			h.raw(`"><meta property="og:url" content="`)
			h.url(meta.URL)
			h.raw(`">`)
		}
		h.raw(`<meta property="og:title" content="`)
		h.text(title)
		h.raw(`"><meta property="og:type" content="`, ogType, `"><meta property="og:site_name" content="`)
		h.text(site.Name)
		h.raw(`">`)
		h.raw(`<link rel="alternate" type="application/rss+xml" title="`)
		h.text(site.Name)
		h.raw(`" href="/feed.xml">`)
		h.raw(`<link rel="stylesheet" href="/public/theme.css">`)
		h.raw(`<script type="application/ld+json">`, WebsiteJsonLD(site), `</script>`)
		if meta.JSONLD != "" {
			h.raw(`<script type="application/ld+json">`, meta.JSONLD, `</script>`)
		}
		h.raw(`</head><body>`)
		h.raw(`<a class="skip-link" href="#site-content">`)
		h.text(p.Sprintf(i18n.SkipToContent))
		h.raw(`</a>`)

		h.raw(`<header class="site-header"><div class="header-inner"><a class="site-title" href="/">`)
		h.text(site.Name)
		h.raw(`</a>`)
		if site.Description != "" {
			h.raw(`<p class="site-description">`)
			h.text(site.Description)
			h.raw(`</p>`)
		}
		h.raw(`<nav class="site-nav"><ul>`)
		for _, m := range site.Menu {
			h.raw(`<li><a href="`)
			h.url(m.Link)
			h.raw(`"`)
			if m.Link == meta.Link {
				h.raw(` aria-current="page"`)
			}
			h.raw(`>`)
			h.text(m.Label)
			h.raw(`</a></li>`)
		}
		h.raw(`</ul></nav>`)
		h.component(SearchForm(site, ""))
		h.raw(`</div></header>`)

		h.raw(`<main id="site-content">`)
		h.component(body)
		h.raw(`</main>`)

		h.raw(`<footer class="site-footer"><div class="footer-inner"><p>&copy; `)
		h.text(site.Name)
		h.raw(`</p><p><a href="/feed.xml">RSS</a></p></div></footer>`)
		h.raw(`</body></html>`)
		return h.err
	})
}

// SearchForm renders the search form, prefilled with query.
func SearchForm(site Site, query string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := printer(site)
		h := newHTML(ctx, w)
		h.raw(`<form class="search-form" role="search" method="get" action="/"><label for="search-field">`)
		h.text(p.Sprintf(i18n.SearchLabel))
		h.raw(`</label><input type="search" id="search-field" name="s" value="`)
		h.text(query)
		h.raw(`" required><button type="submit">`)
		h.text(p.Sprintf(i18n.SearchButton))
		h.raw(`</button></form>`)
		return h.err
	})
}

// FeaturedMedia renders a featured image. Without srcset candidates the
// image falls back to its single source.
func FeaturedMedia(img *Image) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if img == nil {
			return nil
		}
		h := newHTML(ctx, w)
		h.raw(`<figure class="featured-media"><div class="section-inner medium"><img alt="`)
		h.text(img.Alt)
		h.raw(`" src="`)
		h.url(img.Src)
		h.raw(`"`)
		if img.SrcSet != "" {
			h.raw(` srcset="`)
			h.text(img.SrcSet)
			h.raw(`"`)
		}
		if img.Width > 0 && img.Height > 0 {
			h.raw(` width="`, strconv.Itoa(img.Width), `" height="`, strconv.Itoa(img.Height), `"`)
		}
		h.raw(` style="max-height: `)
		h.text(img.MaxHeight)
		h.raw(` !important" loading="lazy"></div></figure>`)
		return h.err
	})
}
