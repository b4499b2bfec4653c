package pressfront

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pressfront/htmlproc"
	"github.com/eringen/pressfront/resolve"
	"github.com/eringen/pressfront/source"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category,omitempty"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
}

func (a *App) renderRSS(c echo.Context, items []resolve.View) error {
	out := make([]rssItem, 0, len(items))
	for _, v := range items {
		e := v.Entity
		link := a.absURL(source.NormalizeLink(e.Link))
		item := rssItem{
			Title: htmlproc.Text(e.Title.Rendered),
			Link:  link,
			GUID:  link,
		}
		if e.Excerpt != nil {
			item.Description = htmlproc.Text(e.Excerpt.Rendered)
		}
		if t, ok := e.Published(); ok {
			item.PubDate = t.Format(time.RFC1123Z)
		}
		for _, cat := range resolve.Found(v.Categories) {
			item.Categories = append(item.Categories, cat.Name)
		}
		out = append(out, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        a.absURL("/"),
			Description: a.Config.Description,
			Language:    a.Config.Language,
			Items:       out,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(feed)
}
