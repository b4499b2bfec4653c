// Package htmlproc post-processes the rendered HTML the REST API returns for
// titles, excerpts and content before it is written into a page.
//
// It is not a sanitizer. The WordPress site is trusted.
package htmlproc

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Processor rewrites rendered HTML for the front-end host.
type Processor struct {
	host string // WordPress host, lowercased
}

// New returns a Processor that treats links to the host of sourceURL as
// site-internal.
func New(sourceURL string) (*Processor, error) {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("htmlproc: parse source url: %w", err)
	}
	return &Processor{host: strings.ToLower(u.Host)}, nil
}

// Process rewrites an HTML fragment:
//   - anchors pointing at the WordPress host become site-relative
//   - images without a loading attribute are lazy loaded
//
// Everything else, scripts included, passes through unchanged.
func (p *Processor) Process(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("htmlproc: parse: %w", err)
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if rel, ok := p.Relative(href); ok {
			s.SetAttr("href", rel)
		}
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("loading"); !ok {
			s.SetAttr("loading", "lazy")
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("htmlproc: render: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Relative turns an absolute link on the WordPress host into a path with its
// query and fragment. Links elsewhere are reported as not rewritten.
func (p *Processor) Relative(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" || strings.ToLower(u.Host) != p.host {
		return link, false
	}
	if strings.HasPrefix(u.Path, "/wp-content/") {
		return link, false
	}
	rel := u.Path
	if rel == "" {
		rel = "/"
	}
	if u.RawQuery != "" {
		rel += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		rel += "#" + u.Fragment
	}
	return rel, true
}

// Text returns the visible text of a fragment with whitespace collapsed, for
// meta descriptions and feeds.
func Text(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
