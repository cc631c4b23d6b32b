package feed

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/umputun/alertscope/pkg/domain"
)

// Generator creates RSS feeds from stored alerts
type Generator struct {
	baseURL string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GenerateRSS creates an RSS 2.0 feed with the alert stream of a keyword
func (g *Generator) GenerateRSS(alerts []domain.Alert, keyword string) (string, error) {
	selfLink := fmt.Sprintf("%s/rss/%s", g.baseURL, url.PathEscape(keyword))

	rssItems := make([]*RSSItem, 0, len(alerts))
	for _, a := range alerts {
		rssItems = append(rssItems, g.convertToRSSItem(a))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         fmt.Sprintf("Alertscope - %s", keyword),
			Link:          g.baseURL + "/",
			Description:   fmt.Sprintf("Feed alerts for keyword %q", keyword),
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}

	return xml.Header + string(output), nil
}

// convertToRSSItem converts a stored alert to an RSS item
func (g *Generator) convertToRSSItem(a domain.Alert) *RSSItem {
	pubDate := a.Published
	if ts := a.PublishedTime(); !ts.IsZero() {
		pubDate = ts.Format(time.RFC1123Z)
	}

	guid := RSSGUID{Value: a.ID}
	if a.Link != "" {
		guid = RSSGUID{Value: a.Link, IsPermaLink: true}
	}

	categories := []string{a.Keyword}
	if a.Sentiment != domain.SentimentUnknown {
		categories = append(categories, string(a.Sentiment))
	}

	return &RSSItem{
		Title:       a.Title,
		Link:        a.Link,
		GUID:        guid,
		Description: a.Content,
		Source:      a.Source,
		PubDate:     pubDate,
		Categories:  categories,
	}
}
