package pressfront

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pressfront/resolve"
	"github.com/eringen/pressfront/source"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists the home page, the configured menu links and the
// latest posts.
func (a *App) renderSitemap(c echo.Context, items []resolve.View) error {
	seen := map[string]bool{}
	var urls []sitemapURL
	add := func(link, lastmod string) {
		link = source.NormalizeLink(link)
		if seen[link] {
			return
		}
		seen[link] = true
		urls = append(urls, sitemapURL{Loc: a.absURL(link), LastMod: lastmod})
	}

	add("/", "")
	for _, m := range a.Config.Menu {
		add(m.Link, "")
	}
	for _, v := range items {
		lastmod := ""
		if t, ok := v.Entity.Published(); ok {
			lastmod = t.Format("2006-01-02")
		}
		add(v.Entity.Link, lastmod)
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
