package domain

import "time"

// Entry represents a single feed entry normalized within one polling cycle
type Entry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Link      string `json:"link"`
	Published string `json:"published"` // RFC3339 when the source value was parseable
	Source    string `json:"source"`
}

// DedupKey returns the identity used to collapse duplicate entries,
// link when present, otherwise title and published joined with "-"
func (e Entry) DedupKey() string {
	if e.Link != "" {
		return e.Link
	}
	return e.Title + "-" + e.Published
}

// PublishedTime returns parsed published timestamp, zero time if not parseable
func (e Entry) PublishedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, e.Published)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Alert represents a persisted entry stored under a tracked keyword
type Alert struct {
	Entry
	RowID     int64     `json:"row_id"`
	Keyword   string    `json:"keyword"`
	Sentiment Sentiment `json:"sentiment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAlert makes an alert from the entry for the given keyword
func NewAlert(e Entry, keyword string) Alert {
	return Alert{Entry: e, Keyword: keyword}
}

// Sentiment represents the tone of an alert as judged by the classifier
type Sentiment string

// enum of sentiment values
const (
	SentimentUnknown  Sentiment = ""
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment converts a free-form label to Sentiment, unknown for anything unexpected
func ParseSentiment(s string) Sentiment {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return Sentiment(s)
	default:
		return SentimentUnknown
	}
}
