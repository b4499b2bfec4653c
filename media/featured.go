package media

import (
	"html"

	"github.com/eringen/pressfront/source"
)

// Max heights for the featured image. The home listing uses the smaller one.
const (
	HomeMaxHeight    = "600px"
	DefaultMaxHeight = "1200px"
)

// EntityLookup finds a fetched entity. *source.Store implements it.
type EntityLookup interface {
	Entity(typ string, id int) (source.Entity, bool)
}

// FeaturedView is what the featured-media component renders.
type FeaturedView struct {
	ID        int
	Alt       string
	Src       string
	SrcSet    string // empty when the attachment has no generated sizes
	MaxHeight string
	Width     int
	Height    int
}

// Featured looks up attachment id and builds its view for a page at link.
// It returns false when id is zero or the attachment has not been fetched;
// nothing should be rendered in that case.
func Featured(data EntityLookup, id int, link string) (FeaturedView, bool) {
	if id == 0 {
		return FeaturedView{}, false
	}
	m, ok := data.Entity(source.TypeAttachment, id)
	if !ok {
		return FeaturedView{}, false
	}

	v := FeaturedView{
		ID:        m.ID,
		Alt:       html.UnescapeString(m.Title.Rendered),
		Src:       m.SourceURL,
		MaxHeight: DefaultMaxHeight,
	}
	if source.NormalizeLink(link) == "/" {
		v.MaxHeight = HomeMaxHeight
	}
	if d := m.MediaDetails; d != nil {
		v.Width, v.Height = d.Width, d.Height
		v.SrcSet, _ = SrcSet(d.Sizes)
	}
	return v, true
}
