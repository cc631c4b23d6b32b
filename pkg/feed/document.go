package feed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"
)

// Document is a generic nested view of a parsed feed. Element names map to a string for
// text-only elements, to a map for elements with attributes or children, or to a []any when
// an element is repeated. Attributes are kept under "@name" keys and element text next to
// attributes or children under "#text". The root is always exposed as "feed".
type Document map[string]any

// ParseError is returned when raw feed text can't be decoded
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse feed: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

const (
	textKey = "#text"
	attrKey = "@"
)

// Decode converts raw feed text into a Document. Atom documents are decoded as-is, keeping
// the raw element shapes. RSS, RDF and JSON feeds are parsed with gofeed and projected into
// the same Atom-style shape with feed.title and feed.entry.
func Decode(raw string) (Document, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Err: errors.New("empty document")}
	}

	switch gofeed.DetectFeedType(strings.NewReader(raw)) {
	case gofeed.FeedTypeAtom:
		return decodeXML(strings.NewReader(raw))
	case gofeed.FeedTypeRSS, gofeed.FeedTypeJSON:
		return decodeUniversal(raw)
	default:
		return nil, &ParseError{Err: errors.New("unknown feed type")}
	}
}

type xmlFrame struct {
	name string
	node map[string]any
	text strings.Builder
}

// decodeXML builds the generic tree from the xml token stream
func decodeXML(r io.Reader) (Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	var stack []*xmlFrame
	var root any
	rootName := ""

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			frame := &xmlFrame{name: t.Name.Local, node: map[string]any{}}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				frame.node[attrKey+a.Name.Local] = a.Value
			}
			stack = append(stack, frame)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			value := frame.value()
			if len(stack) == 0 {
				root, rootName = value, frame.name
				continue
			}
			addChild(stack[len(stack)-1].node, frame.name, value)
		}
	}

	if rootName != "feed" {
		return nil, &ParseError{Err: fmt.Errorf("unexpected root element %q", rootName)}
	}
	return Document{"feed": root}, nil
}

// value collapses text-only elements to plain strings
func (f *xmlFrame) value() any {
	text := strings.TrimSpace(f.text.String())
	if len(f.node) == 0 {
		return text
	}
	if text != "" {
		f.node[textKey] = text
	}
	return f.node
}

// addChild sets the child under name, turning repeated elements into a list
func addChild(parent map[string]any, name string, value any) {
	existing, ok := parent[name]
	if !ok {
		parent[name] = value
		return
	}
	if list, ok := existing.([]any); ok {
		parent[name] = append(list, value)
		return
	}
	parent[name] = []any{existing, value}
}

// decodeUniversal parses non-atom feeds with gofeed and maps items to atom-like entries
func decodeUniversal(raw string) (Document, error) {
	parsed, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	entries := make([]any, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entry := map[string]any{}
		setNonEmpty(entry, "guid", item.GUID)
		setNonEmpty(entry, "link", item.Link)
		setNonEmpty(entry, "title", item.Title)
		setNonEmpty(entry, "content", item.Content)
		setNonEmpty(entry, "summary", item.Description)
		setNonEmpty(entry, "published", timeOrRaw(item.PublishedParsed, item.Published))
		setNonEmpty(entry, "updated", timeOrRaw(item.UpdatedParsed, item.Updated))
		entries = append(entries, entry)
	}

	feedNode := map[string]any{"entry": entries}
	setNonEmpty(feedNode, "title", parsed.Title)
	return Document{"feed": feedNode}, nil
}

func setNonEmpty(m map[string]any, key, val string) {
	if val != "" {
		m[key] = val
	}
}

func timeOrRaw(t *time.Time, raw string) string {
	if t != nil {
		return t.UTC().Format(time.RFC3339)
	}
	return raw
}
