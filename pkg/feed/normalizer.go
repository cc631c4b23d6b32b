package feed

import (
	"strconv"
	"time"

	"github.com/araddon/dateparse"

	"github.com/umputun/alertscope/pkg/domain"
)

// UnknownSource is used as entry source when the feed has no title
const UnknownSource = "Unknown Source"

// accessor extracts a single field candidate from an entry node, empty if not present
type accessor func(entry map[string]any) string

// ordered accessors per field, the first non-empty value wins
var (
	idAccessors        = []accessor{textField("id"), textField("guid"), linkField}
	linkAccessors      = []accessor{linkField}
	publishedAccessors = []accessor{textField("published"), textField("updated")}
	titleAccessors     = []accessor{textField("title")}
	contentAccessors   = []accessor{textField("content"), textField("summary"), textField("description")}
)

// Normalizer maps decoded feed documents to canonical entries
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer makes a Normalizer using wall clock for missing ids and timestamps
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize returns entries of the document in the order they appear. Single entry documents
// are treated as one-element lists, missing fields fall back in priority order and no entry
// is dropped.
func (n *Normalizer) Normalize(doc Document) []domain.Entry {
	feedNode := asNode(doc["feed"])
	source := Sanitize(textOf(feedNode["title"]))
	if source == "" {
		source = UnknownSource
	}

	rawEntries := asList(feedNode["entry"])
	res := make([]domain.Entry, 0, len(rawEntries))
	for _, raw := range rawEntries {
		entry := asNode(raw)
		e := domain.Entry{
			ID:        resolve(entry, idAccessors),
			Title:     Sanitize(resolve(entry, titleAccessors)),
			Content:   Sanitize(resolve(entry, contentAccessors)),
			Link:      resolve(entry, linkAccessors),
			Published: normalizeTimestamp(resolve(entry, publishedAccessors)),
			Source:    source,
		}
		if e.ID == "" {
			e.ID = strconv.FormatInt(n.now().UnixMilli(), 10)
		}
		if e.Published == "" {
			e.Published = n.now().UTC().Format(time.RFC3339)
		}
		res = append(res, e)
	}
	return res
}

func resolve(entry map[string]any, accessors []accessor) string {
	for _, fn := range accessors {
		if v := fn(entry); v != "" {
			return v
		}
	}
	return ""
}

func textField(name string) accessor {
	return func(entry map[string]any) string { return textOf(entry[name]) }
}

func linkField(entry map[string]any) string { return linkOf(entry["link"]) }

// textOf supports plain strings and text nodes, repeated elements use the first value
func textOf(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[textKey].(string); ok {
			return s
		}
	case []any:
		if len(val) > 0 {
			return textOf(val[0])
		}
	}
	return ""
}

// linkOf returns href of a structured link or the scalar value. For multiple links
// the alternate (or rel-less) one is preferred, otherwise the first with a value.
func linkOf(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if href, ok := val[attrKey+"href"].(string); ok && href != "" {
			return href
		}
		return textOf(val)
	case []any:
		for _, l := range val {
			node, ok := l.(map[string]any)
			if !ok {
				continue
			}
			if rel, _ := node[attrKey+"rel"].(string); rel == "" || rel == "alternate" {
				if href := linkOf(node); href != "" {
					return href
				}
			}
		}
		for _, l := range val {
			if href := linkOf(l); href != "" {
				return href
			}
		}
	}
	return ""
}

func asList(v any) []any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		return val
	default:
		return []any{val}
	}
}

func asNode(v any) map[string]any {
	switch val := v.(type) {
	case map[string]any:
		return val
	case Document:
		return val
	case string:
		return map[string]any{textKey: val}
	default:
		return map[string]any{}
	}
}

// normalizeTimestamp converts parseable dates to RFC3339 UTC and keeps others as is
func normalizeTimestamp(s string) string {
	if s == "" {
		return ""
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return s
	}
	return t.UTC().Format(time.RFC3339)
}
