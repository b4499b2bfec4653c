package pressfront

import (
	"html"

	"go.uber.org/zap"

	"github.com/eringen/pressfront/htmlproc"
	"github.com/eringen/pressfront/media"
	"github.com/eringen/pressfront/resolve"
	"github.com/eringen/pressfront/source"
	"github.com/eringen/pressfront/views"
)

// itemOptions selects what a presented post carries.
type itemOptions struct {
	excerpt   bool // excerpt instead of content
	showMedia bool
}

// presentPost turns a resolved view into what the templates render. Terms
// that were not found are left out.
func (a *App) presentPost(v resolve.View, link string, opt itemOptions) views.Post {
	e := v.Entity
	p := views.Post{
		Title:      e.Title.Rendered,
		Link:       source.NormalizeLink(e.Link),
		Categories: a.termLinks(resolve.Found(v.Categories), source.TaxonomyCategory),
		Tags:       a.termLinks(resolve.Found(v.Tags), source.TaxonomyTag),
	}
	if t, ok := e.Published(); ok {
		p.Date = t
	}

	body := e.Content
	if opt.excerpt {
		body = e.Excerpt
	}
	if body != nil {
		p.Content = a.processHTML(body.Rendered)
	}
	if !opt.excerpt {
		if e.Caption != nil {
			p.Caption = a.processHTML(e.Caption.Rendered)
		}
		if e.Description != nil {
			p.Description = a.processHTML(e.Description.Rendered)
		}
	}

	if opt.showMedia {
		if f, ok := media.Featured(a.Store, e.FeaturedMedia, link); ok {
			p.Featured = &views.Image{
				Alt:       f.Alt,
				Src:       f.Src,
				SrcSet:    f.SrcSet,
				MaxHeight: f.MaxHeight,
				Width:     f.Width,
				Height:    f.Height,
			}
		}
	}
	return p
}

func (a *App) termLinks(terms []source.Term, taxonomy string) []views.TermLink {
	if len(terms) == 0 {
		return nil
	}
	out := make([]views.TermLink, len(terms))
	for i, t := range terms {
		out[i] = views.TermLink{Name: html.UnescapeString(t.Name), Link: termLink(t, taxonomy)}
	}
	return out
}

// termLink is the site-relative archive link of a term.
func termLink(t source.Term, taxonomy string) string {
	if t.Link != "" {
		return source.NormalizeLink(t.Link)
	}
	return "/" + taxonomy + "/" + t.Slug + "/"
}

// processHTML rewrites rendered HTML for the site when the html plugin is
// enabled; on failure the markup is returned unchanged.
func (a *App) processHTML(fragment string) string {
	if !a.Config.PluginEnabled(PluginHTML) {
		return fragment
	}
	out, err := a.html.Process(fragment)
	if err != nil {
		a.Log.Debug("html processing failed", zap.Error(err))
		return fragment
	}
	return out
}

func (a *App) postMeta(link string, v resolve.View, post views.Post) views.PageMeta {
	title := htmlproc.Text(v.Entity.Title.Rendered)
	var desc string
	if v.Entity.Excerpt != nil {
		desc = htmlproc.Text(v.Entity.Excerpt.Rendered)
	}
	return views.PageMeta{
		Title:       title,
		Description: desc,
		URL:         a.absURL(link),
		OGType:      "article",
		Link:        link,
		JSONLD:      views.ArticleJsonLD(a.Site(), post, title, desc),
	}
}

func (a *App) archiveMeta(link, title string) views.PageMeta {
	return views.PageMeta{
		Title:       title,
		Description: a.Config.Description,
		URL:         a.absURL(link),
		OGType:      "website",
		Link:        link,
	}
}
