package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pressfront/i18n"
)

// PostPage renders a single post, page or attachment inside the layout.
func PostPage(site Site, meta PageMeta, post Post) templ.Component {
	return Layout(site, meta, PostBody(site, post))
}

// PostBody renders the article of a single post.
func PostBody(site Site, post Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<article class="post single"><header class="post-header single-header"><div class="section-container">`)
		h.component(termList(site, "post-categories", i18n.Categories, post.Categories))
		h.raw(`<h1 class="post-title heading-size-1">`, post.Title, `</h1>`)
		if post.Caption != "" {
			h.raw(`<div class="post-caption">`, post.Caption, `</div>`)
		}
		h.component(postMeta(site, post))
		h.raw(`</div></header>`)
		h.component(FeaturedMedia(post.Featured))
		if post.Description != "" {
			h.raw(`<div class="post-inner thin"><div class="entry-content">`, post.Description, `</div></div>`)
		}
		if post.Content != "" {
			h.raw(`<div class="post-inner thin"><div class="entry-content">`, post.Content, `</div>`)
			h.component(termList(site, "post-tags", i18n.Tags, post.Tags))
			h.raw(`</div>`)
		}
		h.raw(`</article>`)
		return h.err
	})
}

// PostItem renders one entry of a listing with its read-more button.
func PostItem(site Site, post Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := printer(site)
		h := newHTML(ctx, w)
		h.raw(`<article class="post post-item"><header class="post-header"><div class="section-container">`)
		h.component(termList(site, "post-categories", i18n.Categories, post.Categories))
		h.raw(`<a class="post-link" href="`)
		h.url(post.Link)
		h.raw(`"><h2 class="post-item-title heading-size-1">`, post.Title, `</h2></a>`)
		h.component(postMeta(site, post))
		h.raw(`</div></header>`)
		h.component(FeaturedMedia(post.Featured))
		if post.Content != "" {
			h.raw(`<div class="post-inner thin"><div class="entry-content">`, post.Content, `</div>`)
			h.component(termList(site, "post-tags", i18n.Tags, post.Tags))
			h.raw(`</div>`)
		}
		h.raw(`<div class="btn"><a class="post-link" href="`)
		h.url(post.Link)
		h.raw(`"><button type="button">`)
		h.text(p.Sprintf(i18n.ReadMore))
		h.raw(`</button></a></div></article>`)
		return h.err
	})
}

func postMeta(site Site, post Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		date := FormatDate(site.Language, post.Date)
		if date == "" {
			return nil
		}
		h := newHTML(ctx, w)
		h.raw(`<div class="post-meta"><span class="screen-reader-text">`)
		h.text(printer(site).Sprintf(i18n.PostedOn))
		h.raw(`</span> <time datetime="`, post.Date.Format("2006-01-02"), `">`)
		h.text(date)
		h.raw(`</time></div>`)
		return h.err
	})
}

func termList(site Site, class, label string, terms []TermLink) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(terms) == 0 {
			return nil
		}
		h := newHTML(ctx, w)
		h.raw(`<div class="`, class, `"><span class="screen-reader-text">`)
		h.text(printer(site).Sprintf(label))
		h.raw(`</span><ul>`)
		for _, t := range terms {
			h.raw(`<li><a href="`)
			h.url(t.Link)
			h.raw(`">`)
			h.text(t.Name)
			h.raw(`</a></li>`)
		}
		h.raw(`</ul></div>`)
		return h.err
	})
}
