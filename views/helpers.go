package views

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/message"

	"github.com/eringen/pressfront/i18n"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FormatDate renders a publish date the way readers of lang expect it.
func FormatDate(lang string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if i18n.Match(lang).String() == "en" {
		return t.Format("January 2, 2006")
	}
	return t.Format("02.01.2006")
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for the site.
func WebsiteJsonLD(site Site) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      buildURL(site.URL),
		"potentialAction": map[string]string{
			"@type":       "SearchAction",
			"target":      buildURL(site.URL) + "?s={search_term_string}",
			"query-input": "required name=search_term_string",
		},
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ArticleJsonLD produces a Schema.org Article JSON-LD block for a post.
// headline and description are plain text.
func ArticleJsonLD(site Site, post Post, headline, description string) string {
	postURL := buildURL(site.URL, post.Link)
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "Article",
		"headline": headline,
		"url":      postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
	}
	if description != "" {
		data["description"] = description
	}
	if !post.Date.IsZero() {
		data["datePublished"] = post.Date.Format("2006-01-02T15:04:05")
	}
	if post.Featured != nil {
		data["image"] = post.Featured.Src
	}
	if len(post.Tags) > 0 {
		names := make([]string, len(post.Tags))
		for i, t := range post.Tags {
			names[i] = t.Name
		}
		data["keywords"] = strings.Join(names, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func printer(site Site) *message.Printer {
	return i18n.Printer(site.Language)
}

// html is a small write helper for the hand-written components. The first
// write error sticks and later writes are skipped.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTML(ctx context.Context, w io.Writer) *html {
	return &html{ctx: ctx, w: w}
}

func (h *html) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) url(s string) {
	h.raw(templ.EscapeString(string(templ.URL(s))))
}

func (h *html) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}
