// Package media builds the image markup data for attachments: the srcset
// candidate list and the featured-media view.
package media

import (
	"strconv"
	"strings"

	"github.com/eringen/pressfront/source"
)

// SrcSet returns the srcset candidates for sizes as "<url> <width>w" entries
// joined by ", ", in the order the sizes were listed. Widths are not sorted.
// It returns false when there are no sizes; the caller should fall back to a
// single source URL.
func SrcSet(sizes source.Sizes) (string, bool) {
	if len(sizes) == 0 {
		return "", false
	}
	var b strings.Builder
	for i, s := range sizes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.URL)
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(s.Width))
		b.WriteByte('w')
	}
	return b.String(), true
}
