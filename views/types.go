package views

import "time"

// Site holds site-wide settings every page template receives.
type Site struct {
	Name        string
	URL         string // canonical base URL
	Description string
	Language    string // "de" or "en"
	Menu        []MenuItem
}

// MenuItem is one entry of the header navigation.
type MenuItem struct {
	Label string
	Link  string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Link        string // current site-relative link, marks the active menu entry
	JSONLD      string
	NoIndex     bool
}

// TermLink is a category or tag as shown on a post.
type TermLink struct {
	Name string
	Link string
}

// Image is a featured image ready for markup.
type Image struct {
	Alt       string
	Src       string
	SrcSet    string
	MaxHeight string
	Width     int
	Height    int
}

// Post is a single post, page or attachment, or one item of a listing.
// Title, Caption, Description and Content hold trusted HTML.
type Post struct {
	Title       string
	Link        string
	Date        time.Time
	Categories  []TermLink
	Tags        []TermLink
	Caption     string
	Description string
	Content     string
	Featured    *Image
}

// Archive is a listing page: the home page, a category or a tag.
type Archive struct {
	Label    string // small heading above the title, e.g. "Kategorie"
	Heading  string
	Items    []Post
	PrevLink string
	NextLink string
}

// Search is a search results page.
type Search struct {
	Query   string
	Total   int
	Empty   bool
	Archive Archive
}

// AdminStats summarizes what the content store currently holds.
type AdminStats struct {
	Entities int
	Terms    int
	Routes   int
	Cache    string
	Source   string
}
