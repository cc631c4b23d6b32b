package feed

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/alertscope/pkg/domain"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func testNormalizer() *Normalizer {
	return &Normalizer{now: func() time.Time { return fixedNow }}
}

func TestNormalizer_Normalize_Atom(t *testing.T) {
	doc, err := Decode(testAtomFeed)
	require.NoError(t, err)

	entries := testNormalizer().Normalize(doc)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.Entry{
		ID:        "tag:google.com,2013:googlealerts/feed:1",
		Title:     "Golang 1.22 released",
		Content:   "New range over func & more",
		Link:      "https://example.com/go122",
		Published: "2024-02-06T10:00:00Z",
		Source:    "Google Alert - golang",
	}, entries[0])

	// published falls back to updated, content to summary
	assert.Equal(t, "2024-02-05T08:00:00Z", entries[1].Published)
	assert.Equal(t, "summary only", entries[1].Content)
	assert.Equal(t, "https://example.com/second", entries[1].Link)
}

func TestNormalizer_Normalize_SingleEntry(t *testing.T) {
	doc, err := Decode(testSingleEntryAtom)
	require.NoError(t, err)

	entries := testNormalizer().Normalize(doc)
	require.Len(t, entries, 1)
	assert.Equal(t, "only-one", entries[0].ID)
	assert.Equal(t, "Lonely entry", entries[0].Title)
	assert.Equal(t, "Single", entries[0].Source)
}

func TestNormalizer_Normalize_RSS(t *testing.T) {
	doc, err := Decode(testRSSFeed)
	require.NoError(t, err)

	entries := testNormalizer().Normalize(doc)
	require.Len(t, entries, 2)
	assert.Equal(t, "rss-guid-1", entries[0].ID)
	assert.Equal(t, "first", entries[0].Content)
	assert.Equal(t, "2006-01-02T22:04:05Z", entries[0].Published)

	// no id, guid or link, fallbacks to clock
	assert.Equal(t, strconv.FormatInt(fixedNow.UnixMilli(), 10), entries[1].ID)
	assert.Empty(t, entries[1].Link)
	assert.Equal(t, "2024-05-06T07:08:09Z", entries[1].Published)
}

func TestNormalizer_FieldFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		entry map[string]any
		check func(t *testing.T, e domain.Entry)
	}{
		{
			name:  "id from guid",
			entry: map[string]any{"guid": "g1", "link": map[string]any{"@href": "https://example.com/x"}},
			check: func(t *testing.T, e domain.Entry) { assert.Equal(t, "g1", e.ID) },
		},
		{
			name:  "id from link href",
			entry: map[string]any{"link": map[string]any{"@href": "https://example.com/x"}},
			check: func(t *testing.T, e domain.Entry) {
				assert.Equal(t, "https://example.com/x", e.ID)
				assert.Equal(t, "https://example.com/x", e.Link)
			},
		},
		{
			name:  "id prefers id over guid",
			entry: map[string]any{"id": "i1", "guid": "g1"},
			check: func(t *testing.T, e domain.Entry) { assert.Equal(t, "i1", e.ID) },
		},
		{
			name:  "scalar link",
			entry: map[string]any{"id": "1", "link": "https://example.com/scalar"},
			check: func(t *testing.T, e domain.Entry) { assert.Equal(t, "https://example.com/scalar", e.Link) },
		},
		{
			name: "alternate link preferred over self",
			entry: map[string]any{"id": "1", "link": []any{
				map[string]any{"@href": "https://example.com/self", "@rel": "self"},
				map[string]any{"@href": "https://example.com/alt", "@rel": "alternate"},
			}},
			check: func(t *testing.T, e domain.Entry) { assert.Equal(t, "https://example.com/alt", e.Link) },
		},
		{
			name: "first link when no alternate",
			entry: map[string]any{"id": "1", "link": []any{
				map[string]any{"@href": "https://example.com/enc", "@rel": "enclosure"},
				map[string]any{"@href": "https://example.com/self", "@rel": "self"},
			}},
			check: func(t *testing.T, e domain.Entry) { assert.Equal(t, "https://example.com/enc", e.Link) },
		},
		{
			name:  "missing link is empty",
			entry: map[string]any{"id": "1"},
			check: func(t *testing.T, e domain.Entry) { assert.Empty(t, e.Link) },
		},
		{
			name:  "text node title and content",
			entry: map[string]any{"title": map[string]any{"#text": "Hello &amp; bye"}, "content": map[string]any{"@type": "html", "#text": "<p>body</p>"}},
			check: func(t *testing.T, e domain.Entry) {
				assert.Equal(t, "Hello & bye", e.Title)
				assert.Equal(t, "body", e.Content)
			},
		},
		{
			name:  "missing title and content are empty",
			entry: map[string]any{"id": "1"},
			check: func(t *testing.T, e domain.Entry) {
				assert.Empty(t, e.Title)
				assert.Empty(t, e.Content)
			},
		},
		{
			name:  "text node without text is empty",
			entry: map[string]any{"title": map[string]any{"@type": "text"}},
			check: func(t *testing.T, e domain.Entry) { assert.Empty(t, e.Title) },
		},
		{
			name:  "published from updated",
			entry: map[string]any{"updated": "2024-01-01T10:00:00+02:00"},
			check: func(t *testing.T, e domain.Entry) { assert.Equal(t, "2024-01-01T08:00:00Z", e.Published) },
		},
		{
			name:  "unparseable published kept verbatim",
			entry: map[string]any{"published": "sometime last week"},
			check: func(t *testing.T, e domain.Entry) { assert.Equal(t, "sometime last week", e.Published) },
		},
		{
			name:  "missing published uses clock",
			entry: map[string]any{},
			check: func(t *testing.T, e domain.Entry) { assert.Equal(t, "2024-05-06T07:08:09Z", e.Published) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{"feed": map[string]any{"title": "Feed", "entry": tt.entry}}
			entries := testNormalizer().Normalize(doc)
			require.Len(t, entries, 1)
			tt.check(t, entries[0])
		})
	}
}

func TestNormalizer_Source(t *testing.T) {
	t.Run("missing feed title", func(t *testing.T) {
		doc := Document{"feed": map[string]any{"entry": map[string]any{"id": "1"}}}
		entries := testNormalizer().Normalize(doc)
		require.Len(t, entries, 1)
		assert.Equal(t, UnknownSource, entries[0].Source)
	})

	t.Run("text node feed title", func(t *testing.T) {
		doc := Document{"feed": map[string]any{"title": map[string]any{"#text": "News &lt;daily&gt;"}, "entry": map[string]any{"id": "1"}}}
		entries := testNormalizer().Normalize(doc)
		require.Len(t, entries, 1)
		assert.Equal(t, "News <daily>", entries[0].Source)
	})
}

func TestNormalizer_KeepsOrderAndDuplicates(t *testing.T) {
	doc := Document{"feed": map[string]any{"entry": []any{
		map[string]any{"id": "3", "link": "https://example.com/a"},
		map[string]any{"id": "1", "link": "https://example.com/a"},
		map[string]any{"id": "2"},
	}}}
	entries := testNormalizer().Normalize(doc)
	require.Len(t, entries, 3)
	assert.Equal(t, "3", entries[0].ID)
	assert.Equal(t, "1", entries[1].ID)
	assert.Equal(t, "2", entries[2].ID)
}

func TestNormalizer_EmptyDocument(t *testing.T) {
	assert.Empty(t, testNormalizer().Normalize(Document{}))
	assert.Empty(t, testNormalizer().Normalize(Document{"feed": map[string]any{"title": "no entries"}}))
	assert.Empty(t, testNormalizer().Normalize(nil))
}
