package source

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizesKeepInsertionOrder(t *testing.T) {
	raw := `{
		"medium": {"source_url": "https://wp.test/m.jpg", "width": 300, "height": 200},
		"thumbnail": {"source_url": "https://wp.test/t.jpg", "width": 150, "height": 150},
		"full": {"source_url": "https://wp.test/f.jpg", "width": 1200, "height": 800, "mime_type": "image/jpeg"}
	}`
	var sizes Sizes
	require.NoError(t, json.Unmarshal([]byte(raw), &sizes))

	require.Len(t, sizes, 3)
	assert.Equal(t, "medium", sizes[0].Name)
	assert.Equal(t, "thumbnail", sizes[1].Name)
	assert.Equal(t, "full", sizes[2].Name)
	assert.Equal(t, 1200, sizes[2].Width)
	assert.Equal(t, "image/jpeg", sizes[2].MimeType)
}

func TestSizesEmptyArrayAndNull(t *testing.T) {
	var sizes Sizes
	require.NoError(t, json.Unmarshal([]byte(`[]`), &sizes))
	assert.Empty(t, sizes)

	var details MediaDetails
	require.NoError(t, json.Unmarshal([]byte(`{"width": 10, "height": 10, "sizes": null}`), &details))
	assert.Nil(t, details.Sizes)
}

func TestSizesRejectScalar(t *testing.T) {
	var sizes Sizes
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &sizes))
}

func TestSizesMarshalPreservesOrder(t *testing.T) {
	sizes := Sizes{
		{Name: "b", URL: "u2", Width: 300},
		{Name: "a", URL: "u1", Width: 100},
	}
	out, err := json.Marshal(sizes)
	require.NoError(t, err)
	assert.Equal(t, `{"b":{"source_url":"u2","width":300,"height":0},"a":{"source_url":"u1","width":100,"height":0}}`, string(out))

	var back Sizes
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "b", back[0].Name)
	assert.Equal(t, "a", back[1].Name)
}

func TestEntityOptionalFields(t *testing.T) {
	raw := `{"id": 7, "type": "attachment", "title": {"rendered": "Sunset"},
		"caption": {"rendered": "<p>Evening</p>"}, "source_url": "https://wp.test/s.jpg"}`
	var e Entity
	require.NoError(t, json.Unmarshal([]byte(raw), &e))

	assert.Nil(t, e.Content)
	assert.Nil(t, e.Categories)
	require.NotNil(t, e.Caption)
	assert.Equal(t, "<p>Evening</p>", e.Caption.Rendered)
}

func TestEntityPublished(t *testing.T) {
	e := Entity{Date: "2024-03-01T09:30:00"}
	ts, ok := e.Published()
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	_, ok = Entity{Date: "yesterday"}.Published()
	assert.False(t, ok)
}
