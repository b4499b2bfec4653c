package views

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

var testSite = Site{
	Name:     "React meets Wordpress",
	URL:      "https://example.com",
	Language: "de",
	Menu: []MenuItem{
		{Label: "Home", Link: "/"},
		{Label: "Street", Link: "/category/street/"},
	},
}

func TestLayoutMarksActiveMenuEntry(t *testing.T) {
	out := render(t, Layout(testSite, PageMeta{Title: "Street", Link: "/category/street/"}, nil))
	assert.Contains(t, out, `<html lang="de">`)
	assert.Contains(t, out, `<title>Street | React meets Wordpress</title>`)
	assert.Contains(t, out, `<a href="/category/street/" aria-current="page">Street</a>`)
	assert.Contains(t, out, `<a href="/">Home</a>`)
}

func TestPostItem(t *testing.T) {
	post := Post{
		Title:      "Hello <em>World</em>",
		Link:       "/hello-world/",
		Date:       time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		Categories: []TermLink{{Name: "News", Link: "/category/news/"}},
		Content:    "<p>Excerpt</p>",
	}
	out := render(t, PostItem(testSite, post))
	assert.Contains(t, out, "<h2 class=\"post-item-title heading-size-1\">Hello <em>World</em></h2>")
	assert.Contains(t, out, "MEHR ERFAHREN")
	assert.Contains(t, out, "05.03.2024")
	assert.Contains(t, out, `<a href="/category/news/">News</a>`)
	assert.NotContains(t, out, "post-tags")
	assert.NotContains(t, out, "featured-media")
}

func TestFeaturedMedia(t *testing.T) {
	out := render(t, FeaturedMedia(&Image{
		Alt:       `Caf "é"`,
		Src:       "https://wp.test/a.jpg",
		SrcSet:    "https://wp.test/a-300.jpg 300w, https://wp.test/a.jpg 1200w",
		MaxHeight: "600px",
	}))
	assert.Contains(t, out, `alt="Caf &#34;é&#34;"`)
	assert.Contains(t, out, `srcset="https://wp.test/a-300.jpg 300w, https://wp.test/a.jpg 1200w"`)
	assert.Contains(t, out, "max-height: 600px !important")

	out = render(t, FeaturedMedia(&Image{Src: "https://wp.test/a.jpg", MaxHeight: "1200px"}))
	assert.NotContains(t, out, "srcset")

	assert.Empty(t, render(t, FeaturedMedia(nil)))
}

func TestSearchBodyEmptyShowsForm(t *testing.T) {
	out := render(t, SearchBody(testSite, Search{Query: "foo bar", Empty: true}))
	assert.Contains(t, out, "SUCHE")
	assert.Contains(t, out, "“foo bar”")
	assert.Contains(t, out, "Keine Suchergebnisse gefunden")
	assert.Contains(t, out, `value="foo bar"`)
	assert.NotContains(t, out, "archive-items")
}

func TestSearchBodyWithResults(t *testing.T) {
	out := render(t, SearchBody(testSite, Search{
		Query:   "go",
		Total:   2,
		Archive: Archive{Items: []Post{{Title: "A", Link: "/a/"}, {Title: "B", Link: "/b/"}}},
	}))
	assert.Contains(t, out, "Es wurden 2 Ergebnisse für die Suche gefunden.")
	assert.Contains(t, out, "archive-items")
	assert.Contains(t, out, `href="/b/"`)
}

func TestArchivePagination(t *testing.T) {
	out := render(t, ArchiveBody(testSite, Archive{
		Label:    "Kategorie",
		Heading:  "Street",
		NextLink: "/category/street/page/3/",
		PrevLink: "/category/street/",
	}))
	assert.Contains(t, out, `<a class="older" href="/category/street/page/3/">`)
	assert.Contains(t, out, `<a class="newer" href="/category/street/">`)
	assert.Contains(t, out, "Ältere Beiträge")

	out = render(t, ArchiveBody(testSite, Archive{}))
	assert.NotContains(t, out, "pagination")
}

func TestArticleJsonLD(t *testing.T) {
	raw := ArticleJsonLD(testSite, Post{
		Link: "/hello-world/",
		Date: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		Tags: []TermLink{{Name: "go"}, {Name: "web"}},
	}, "Hello", "Summary")

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	assert.Equal(t, "Article", data["@type"])
	assert.Equal(t, "https://example.com/hello-world/", data["url"])
	assert.Equal(t, "go, web", data["keywords"])
	assert.Equal(t, "2024-03-05T10:00:00", data["datePublished"])
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "05.03.2024", FormatDate("de", d))
	assert.Equal(t, "March 5, 2024", FormatDate("en", d))
	assert.Empty(t, FormatDate("de", time.Time{}))
}

func TestStatusPagesAreNotIndexed(t *testing.T) {
	out := render(t, NotFound(testSite))
	assert.Contains(t, out, "Seite nicht gefunden")
	assert.Contains(t, out, `<meta name="robots" content="noindex">`)
}
