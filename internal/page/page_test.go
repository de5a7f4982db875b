package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<html>
<head>
<title>  Senior Go Engineer at Acme  </title>
<meta property="og:description" content="Build distributed systems.">
<meta property="og:site_name" content="Acme Corp">
<meta name="description" content="Short blurb.">
<script type="application/ld+json">{"@type": "JobPosting"}</script>
<script type="application/ld+json">   </script>
</head>
<body>
<nav>Home | Jobs | About</nav>
<main>
<h1 class="job-title">Senior Go Engineer</h1>
<div class="job-description">We are hiring.   Lots   of   spaces.</div>
</main>
<footer>Copyright</footer>
<script>console.log("tracking")</script>
</body>
</html>`

func TestNew_InvalidHTMLStillParses(t *testing.T) {
	// goquery is lenient; even broken markup produces a document.
	p, err := New("<div><p>unclosed", "")
	require.NoError(t, err)
	assert.Contains(t, p.VisibleText(), "unclosed")
}

func TestTitle(t *testing.T) {
	p, err := New(sampleHTML, "https://example.com/job")
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer at Acme", p.Title())
	assert.Equal(t, "https://example.com/job", p.URL())
}

func TestStructuredDataBlocks_SkipsEmpty(t *testing.T) {
	p, err := New(sampleHTML, "")
	require.NoError(t, err)

	blocks := p.StructuredDataBlocks()
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0], "JobPosting")
}

func TestMetaProperty(t *testing.T) {
	p, err := New(sampleHTML, "")
	require.NoError(t, err)

	assert.Equal(t, "Build distributed systems.", p.MetaProperty("og:description"))
	assert.Equal(t, "Acme Corp", p.MetaProperty("og:site_name"))
	assert.Empty(t, p.MetaProperty("og:missing"))
}

func TestMetaName(t *testing.T) {
	p, err := New(sampleHTML, "")
	require.NoError(t, err)

	assert.Equal(t, "Short blurb.", p.MetaName("description"))
	assert.Empty(t, p.MetaName("twitter:description"))
}

func TestSelectText_Normalizes(t *testing.T) {
	p, err := New(sampleHTML, "")
	require.NoError(t, err)

	assert.Equal(t, "We are hiring. Lots of spaces.", p.SelectText(".job-description"))
	assert.Empty(t, p.SelectText(".nonexistent"))
}

func TestVisibleText_RemovesChrome(t *testing.T) {
	p, err := New(sampleHTML, "")
	require.NoError(t, err)

	text := p.VisibleText()
	assert.Contains(t, text, "We are hiring.")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "Home | Jobs")
	assert.NotContains(t, text, "Copyright")
}

func TestVisibleText_ExtraNoiseSelectors(t *testing.T) {
	p, err := New(sampleHTML, "")
	require.NoError(t, err)

	text := p.VisibleText(".job-description")
	assert.NotContains(t, text, "We are hiring.")
	assert.Contains(t, text, "Senior Go Engineer")
}

func TestVisibleText_Idempotent(t *testing.T) {
	p, err := New(sampleHTML, "")
	require.NoError(t, err)

	// Passing noise selectors must not mutate the underlying document.
	p.VisibleText(".job-description")
	assert.Contains(t, p.VisibleText(), "We are hiring.")
}
