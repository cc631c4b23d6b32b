package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAtomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Google Alert - golang</title>
	<link href="https://www.google.com/alerts/feeds/1" rel="self"/>
	<entry>
		<id>tag:google.com,2013:googlealerts/feed:1</id>
		<title type="html">&lt;b&gt;Golang&lt;/b&gt; 1.22 released</title>
		<link href="https://example.com/go122"/>
		<published>2024-02-06T10:00:00Z</published>
		<updated>2024-02-06T11:00:00Z</updated>
		<content type="html">New &lt;b&gt;range&lt;/b&gt; over func &amp;amp; more</content>
	</entry>
	<entry>
		<id>tag:google.com,2013:googlealerts/feed:2</id>
		<title>Second entry</title>
		<link href="https://example.com/second"/>
		<updated>2024-02-05T08:00:00Z</updated>
		<summary>summary only</summary>
	</entry>
</feed>`

const testSingleEntryAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Single</title>
	<entry>
		<id>only-one</id>
		<title>Lonely entry</title>
		<link href="https://example.com/lonely"/>
		<published>2024-03-01T00:00:00Z</published>
	</entry>
</feed>`

const testRSSFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>RSS Channel</title>
		<link>https://example.com</link>
		<item>
			<title>RSS Item 1</title>
			<link>https://example.com/rss1</link>
			<guid>rss-guid-1</guid>
			<description>&lt;p&gt;first&lt;/p&gt;</description>
			<pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
		</item>
		<item>
			<title>RSS Item 2</title>
			<description>no link here</description>
		</item>
	</channel>
</rss>`

func TestDecode_Atom(t *testing.T) {
	doc, err := Decode(testAtomFeed)
	require.NoError(t, err)

	feedNode, ok := doc["feed"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Google Alert - golang", feedNode["title"])

	entries, ok := feedNode["entry"].([]any)
	require.True(t, ok, "repeated entries decoded as list")
	require.Len(t, entries, 2)

	first := entries[0].(map[string]any)
	assert.Equal(t, "tag:google.com,2013:googlealerts/feed:1", first["id"])
	assert.Equal(t, map[string]any{"@type": "html", "#text": "<b>Golang</b> 1.22 released"}, first["title"])
	assert.Equal(t, map[string]any{"@href": "https://example.com/go122"}, first["link"])
	assert.Equal(t, "2024-02-06T10:00:00Z", first["published"])

	second := entries[1].(map[string]any)
	assert.Equal(t, "Second entry", second["title"])
	assert.Equal(t, "summary only", second["summary"])
}

func TestDecode_AtomSingleEntry(t *testing.T) {
	doc, err := Decode(testSingleEntryAtom)
	require.NoError(t, err)

	feedNode := doc["feed"].(map[string]any)
	entry, ok := feedNode["entry"].(map[string]any)
	require.True(t, ok, "single entry kept as object")
	assert.Equal(t, "only-one", entry["id"])
}

func TestDecode_RSS(t *testing.T) {
	doc, err := Decode(testRSSFeed)
	require.NoError(t, err)

	feedNode := doc["feed"].(map[string]any)
	assert.Equal(t, "RSS Channel", feedNode["title"])

	entries := feedNode["entry"].([]any)
	require.Len(t, entries, 2)

	first := entries[0].(map[string]any)
	assert.Equal(t, "rss-guid-1", first["guid"])
	assert.Equal(t, "https://example.com/rss1", first["link"])
	assert.Equal(t, "RSS Item 1", first["title"])
	assert.Equal(t, "<p>first</p>", first["summary"])
	assert.Equal(t, "2006-01-02T22:04:05Z", first["published"])

	second := entries[1].(map[string]any)
	_, hasLink := second["link"]
	assert.False(t, hasLink)
	_, hasPublished := second["published"]
	assert.False(t, hasPublished)
}

func TestDecode_JSONFeed(t *testing.T) {
	raw := `{
		"version": "https://jsonfeed.org/version/1.1",
		"title": "JSON Feed",
		"items": [
			{"id": "j1", "url": "https://example.com/j1", "title": "JSON item", "content_text": "hello", "date_published": "2024-04-01T10:00:00Z"}
		]
	}`
	doc, err := Decode(raw)
	require.NoError(t, err)

	feedNode := doc["feed"].(map[string]any)
	assert.Equal(t, "JSON Feed", feedNode["title"])
	entries := feedNode["entry"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "j1", entry["guid"])
	assert.Equal(t, "https://example.com/j1", entry["link"])
	assert.Equal(t, "2024-04-01T10:00:00Z", entry["published"])
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: "  "},
		{name: "not a feed", raw: "not xml content"},
		{name: "truncated atom", raw: `<feed xmlns="http://www.w3.org/2005/Atom"><entry><title>x</title>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(tt.raw)
			require.Error(t, err)
			assert.Nil(t, doc)
			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
		})
	}
}

func TestAddChild(t *testing.T) {
	node := map[string]any{}
	addChild(node, "link", "a")
	assert.Equal(t, "a", node["link"])
	addChild(node, "link", "b")
	assert.Equal(t, []any{"a", "b"}, node["link"])
	addChild(node, "link", "c")
	assert.Equal(t, []any{"a", "b", "c"}, node["link"])
}
