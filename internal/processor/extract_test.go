package processor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Fallback Title</title>
<meta property="og:title" content="OG Title" />
<meta property="og:description" content="OG Description" />
<meta name="twitter:title" content="TW Title" />
<meta name="twitter:card" content="summary" />
<meta name="author" content="Jane Writer" />
</head>
<body>
<article>
<h1>OG Title</h1>
<p>First paragraph with enough words to count as readable body text for the
extraction pass, repeated a little so it does not get discarded.</p>
<p>Second paragraph with more readable body text so the main content block is
clearly identifiable by the readability heuristics.</p>
</article>
</body>
</html>`

func TestExtractMetadata(t *testing.T) {
	result, err := Extract([]byte(samplePage), "https://example.com/post")
	require.NoError(t, err)

	require.Equal(t, "OG Title", result.OpenGraph["title"])
	require.Equal(t, "OG Description", result.OpenGraph["description"])
	require.Equal(t, "TW Title", result.Twitter["title"])
	require.Equal(t, "summary", result.Twitter["card"])
	require.Equal(t, "Jane Writer", result.Author)
	require.Equal(t, "OG Title", result.Title)
	require.Equal(t, samplePage, result.FullHTML)
}

func TestExtractTitleFallbacks(t *testing.T) {
	page := `<html><head><title>Plain Title</title></head><body><p>x</p></body></html>`
	result, err := Extract([]byte(page), "")
	require.NoError(t, err)
	require.Equal(t, "Plain Title", result.Title)

	page = `<html><head><title>Plain</title><meta name="twitter:title" content="TW Only"/></head><body></body></html>`
	result, err = Extract([]byte(page), "")
	require.NoError(t, err)
	require.Equal(t, "TW Only", result.Title)
}

func TestExtractEmptyContentIgnored(t *testing.T) {
	page := `<html><head><meta property="og:title" content="  "/></head><body></body></html>`
	result, err := Extract([]byte(page), "")
	require.NoError(t, err)
	require.NotContains(t, result.OpenGraph, "title")
}
