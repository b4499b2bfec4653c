// Package source fetches content from the WordPress REST API and keeps it in a
// keyed, in-memory store that the resolver and the views read from.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// Entity types as reported by the REST API "type" field.
const (
	TypePost       = "post"
	TypePage       = "page"
	TypeAttachment = "attachment"
)

// Taxonomy names used as store keys. The API reports tags as "post_tag";
// they are normalized to TaxonomyTag when stored.
const (
	TaxonomyCategory = "category"
	TaxonomyTag      = "tag"
)

// Rendered is a rich-text field as delivered by the API.
type Rendered struct {
	Rendered  string `json:"rendered"`
	Protected bool   `json:"protected,omitempty"`
}

// Entity is a post, page or attachment.
type Entity struct {
	ID            int       `json:"id"`
	Type          string    `json:"type"`
	Slug          string    `json:"slug"`
	Link          string    `json:"link"`
	Date          string    `json:"date"`
	Title         Rendered  `json:"title"`
	Excerpt       *Rendered `json:"excerpt,omitempty"`
	Content       *Rendered `json:"content,omitempty"`
	Description   *Rendered `json:"description,omitempty"`
	Caption       *Rendered `json:"caption,omitempty"`
	Categories    []int     `json:"categories,omitempty"`
	Tags          []int     `json:"tags,omitempty"`
	FeaturedMedia int       `json:"featured_media,omitempty"`

	// Attachment fields.
	SourceURL    string        `json:"source_url,omitempty"`
	MediaDetails *MediaDetails `json:"media_details,omitempty"`

	Embedded *Embedded `json:"_embedded,omitempty"`
}

// Published parses the entity date. The API omits the zone; dates are
// returned in the site's local time.
func (e Entity) Published() (time.Time, bool) {
	t, err := time.Parse("2006-01-02T15:04:05", e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Embedded holds the records the API inlines when a request sets _embed.
type Embedded struct {
	FeaturedMedia []Entity `json:"wp:featuredmedia,omitempty"`
	Terms         [][]Term `json:"wp:term,omitempty"`
}

// Term is a category or tag.
type Term struct {
	ID       int    `json:"id"`
	Taxonomy string `json:"taxonomy"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Link     string `json:"link"`
	Count    int    `json:"count,omitempty"`
}

// MediaDetails describes an attachment's original file and its generated sizes.
type MediaDetails struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Sizes  Sizes `json:"sizes"`
}

// Size is one generated variant of an image.
type Size struct {
	Name     string
	URL      string
	Width    int
	Height   int
	MimeType string
}

// Sizes keeps the variants in the order the API listed them.
type Sizes []Size

// UnmarshalJSON walks the "sizes" object key by key so that insertion order
// survives decoding.
func (s *Sizes) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("source: invalid sizes json")
	}
	res := gjson.ParseBytes(data)
	switch {
	case res.Type == gjson.Null:
		*s = nil
		return nil
	case res.IsArray():
		// Non-image attachments report an empty array.
		*s = Sizes{}
		return nil
	case !res.IsObject():
		return fmt.Errorf("source: sizes must be an object, got %s", res.Type)
	}
	out := Sizes{}
	res.ForEach(func(key, value gjson.Result) bool {
		out = append(out, Size{
			Name:     key.String(),
			URL:      value.Get("source_url").String(),
			Width:    int(value.Get("width").Int()),
			Height:   int(value.Get("height").Int()),
			MimeType: value.Get("mime_type").String(),
		})
		return true
	})
	*s = out
	return nil
}

// MarshalJSON writes the variants back as an object in the same order.
func (s Sizes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, size := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(size.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(struct {
			URL      string `json:"source_url"`
			Width    int    `json:"width"`
			Height   int    `json:"height"`
			MimeType string `json:"mime_type,omitempty"`
		}{size.URL, size.Width, size.Height, size.MimeType})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ItemRef points at an entity listed by an archive route.
type ItemRef struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// RouteData describes what a link resolves to and whether it finished
// loading. Entity fields must not be read before IsReady is true.
type RouteData struct {
	Link        string    `json:"link"`
	Type        string    `json:"type,omitempty"`
	ID          int       `json:"id,omitempty"`
	IsReady     bool      `json:"isReady"`
	IsFetching  bool      `json:"isFetching"`
	IsArchive   bool      `json:"isArchive,omitempty"`
	IsHome      bool      `json:"isHome,omitempty"`
	IsTaxonomy  bool      `json:"isTaxonomy,omitempty"`
	IsSearch    bool      `json:"isSearch,omitempty"`
	IsPostType  bool      `json:"isPostType,omitempty"`
	IsError     bool      `json:"isError,omitempty"`
	ErrorStatus int       `json:"errorStatus,omitempty"`
	Page        int       `json:"page,omitempty"`
	Total       int       `json:"total"`
	TotalPages  int       `json:"totalPages,omitempty"`
	SearchQuery string    `json:"searchQuery,omitempty"`
	Items       []ItemRef `json:"items,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt,omitzero"`
}
