package article_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verinews/internal/article"
)

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, article.LooksLikeHTML("<p>Hello</p>"))
	assert.True(t, article.LooksLikeHTML("text<br/>more"))
	assert.True(t, article.LooksLikeHTML("<!-- note -->body"))
	assert.False(t, article.LooksLikeHTML("a < b and c > d"))
	assert.False(t, article.LooksLikeHTML("plain text"))
}

func TestStripHTML(t *testing.T) {
	html := `<html><head><style>p{color:red}</style><script>alert(1)</script></head>
<body><h1>Headline</h1><p>First paragraph.</p><p>Second&nbsp;one &amp; more.</p></body></html>`

	text, err := article.StripHTML(html)

	require.NoError(t, err)
	assert.Equal(t, "Headline First paragraph. Second one & more.", text)
}

func TestNormalize(t *testing.T) {
	text, stripped := article.Normalize("  several\n\nlines\tof   text ")
	assert.False(t, stripped)
	assert.Equal(t, "several lines of text", text)

	text, stripped = article.Normalize("<div>Breaking <b>news</b></div>")
	assert.True(t, stripped)
	assert.Equal(t, "Breaking news", text)
}

func TestEnhance(t *testing.T) {
	got, ok := article.Enhance("Short body.", "Moon landing faked", "example.com", 100)

	assert.True(t, ok)
	assert.Equal(t, "Moon landing faked. This article appears to be from example.com. Short body.", got)
}

func TestEnhance_LongContentUnchanged(t *testing.T) {
	body := "This body is comfortably longer than the configured minimum length for enhancement to kick in at all."

	got, ok := article.Enhance(body, "Title", "Source", 50)

	assert.False(t, ok)
	assert.Equal(t, body, got)
}

func TestEnhance_NothingToAdd(t *testing.T) {
	got, ok := article.Enhance("tiny", "", "  ", 100)

	assert.False(t, ok)
	assert.Equal(t, "tiny", got)
}

func TestPrepare(t *testing.T) {
	p := article.Prepare("<p>Tiny claim.</p>", "Title.", "", 100)

	assert.True(t, p.HTMLStripped)
	assert.True(t, p.Enhanced)
	assert.Equal(t, "Title. Tiny claim.", p.Text)
	assert.Equal(t, len("Tiny claim."), p.OriginalLength)
	assert.Equal(t, len("Title. Tiny claim."), p.EnhancedLength)

	p = article.Prepare("Tiny claim.", "Title", "", 0)
	assert.False(t, p.Enhanced)
	assert.Equal(t, "Tiny claim.", p.Text)
}
