// Package poller runs the fetch, normalize, dedup and store cycle for one watched feed
// and exposes the resulting alert stream to subscribers.
package poller

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/alertscope/pkg/domain"
	"github.com/umputun/alertscope/pkg/feed"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/classifier.go -pkg mocks -skip-ensure -fmt goimports . SentimentClassifier

// input errors, returned in State.Err without any I/O
var (
	ErrMissingURL     = errors.New("feed url is missing")
	ErrMissingKeyword = errors.New("search keyword is missing")
)

// Fetcher retrieves raw feed text
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Store is the alert persistence used by the poller
type Store interface {
	GetAlertsByKeyword(ctx context.Context, keyword string) []domain.Alert
	SaveUniqueAlert(ctx context.Context, alert *domain.Alert) (bool, error)
	UpdateSentiment(ctx context.Context, rowID int64, sentiment domain.Sentiment) error
}

// SentimentClassifier tags alerts with sentiment, keyed by alert RowID
type SentimentClassifier interface {
	Classify(ctx context.Context, keyword string, alerts []domain.Alert) (map[int64]domain.Sentiment, error)
}

// Deps are the collaborators of the poller, Classifier is optional
type Deps struct {
	Fetcher    Fetcher
	Store      Store
	Classifier SentimentClassifier
}

// Params defines the watched feed
type Params struct {
	URL         string
	Keyword     string
	AutoRefresh bool
	Interval    time.Duration // default 60s
	MaxWorkers  int           // concurrent saves per cycle, default 5
}

// Poller polls one feed for one keyword, keeps the latest State and streams it to subscribers
type Poller struct {
	deps       Deps
	params     Params
	normalizer *feed.Normalizer

	refreshMu sync.Mutex // one cycle at a time
	alive     atomic.Bool

	mu      sync.RWMutex
	state   State
	subs    map[int]chan State
	nextSub int
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stop    sync.Once
}

// New makes a poller in idle state. Keyword is trimmed but not case-folded.
func New(deps Deps, params Params) *Poller {
	params.URL = strings.TrimSpace(params.URL)
	params.Keyword = strings.TrimSpace(params.Keyword)
	if params.Interval <= 0 {
		params.Interval = 60 * time.Second
	}
	if params.MaxWorkers <= 0 {
		params.MaxWorkers = 5
	}

	p := &Poller{
		deps:       deps,
		params:     params,
		normalizer: feed.NewNormalizer(),
		state:      State{Status: StatusIdle, Data: []domain.Alert{}},
		subs:       map[int]chan State{},
	}
	p.alive.Store(true)
	return p
}

// Subscribe creates a poller for url and keyword, starts it and returns the stream of its states.
// The returned func stops the poller and closes the stream, cancelling ctx does the same.
func Subscribe(ctx context.Context, deps Deps, params Params) (<-chan State, func()) {
	p := New(deps, params)
	ch, unsubscribe := p.Subscribe()
	p.Start(ctx)

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			unsubscribe()
			p.Stop()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	return ch, cancel
}

// Params returns the watch parameters
func (p *Poller) Params() Params {
	return p.params
}

// State returns a copy of the current state
func (p *Poller) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.clone()
}

// Subscribe returns a stream of states, starting with the current one.
// Slow readers see the latest state only. The returned func closes the stream.
func (p *Poller) Subscribe() (<-chan State, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan State, 1)
	if !p.alive.Load() {
		close(ch)
		return ch, func() {}
	}

	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	ch <- p.state.clone()

	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if c, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(c)
		}
	}
}

// Start runs the first cycle immediately and then repeats it every interval if auto-refresh is on.
// With auto-refresh off the cycle runs exactly once.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil || !p.alive.Load() {
		p.mu.Unlock()
		lgr.Printf("[WARN] poller for %q already started or stopped", p.params.Keyword)
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.Refresh(ctx)
		if !p.params.AutoRefresh {
			return
		}

		ticker := time.NewTicker(p.params.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Refresh(ctx)
			}
		}
	}()
	lgr.Printf("[INFO] poller started for %q, url %s, auto-refresh %v, interval %v",
		p.params.Keyword, p.params.URL, p.params.AutoRefresh, p.params.Interval)
}

// Stop halts the timer, discards results of an in-flight cycle and closes all subscriptions.
// State is not changed after Stop returns.
func (p *Poller) Stop() {
	p.stop.Do(func() {
		p.alive.Store(false)
		p.mu.Lock()
		if p.cancel != nil {
			p.cancel()
		}
		p.mu.Unlock()
		p.wg.Wait()

		p.mu.Lock()
		for id, ch := range p.subs {
			close(ch)
			delete(p.subs, id)
		}
		p.mu.Unlock()
		lgr.Printf("[DEBUG] poller for %q stopped", p.params.Keyword)
	})
}

// Refresh runs one cycle and returns the resulting state.
// Cycle failures end up in State.Err, the previous alerts and active alert are kept in this case.
func (p *Poller) Refresh(ctx context.Context) State {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	prev := p.State()

	switch {
	case p.params.URL == "":
		return p.publish(State{Status: StatusError, Err: ErrMissingURL, Message: msgMissingURL,
			Data: prev.Data, ActiveAlert: prev.ActiveAlert})
	case p.params.Keyword == "":
		return p.publish(State{Status: StatusError, Err: ErrMissingKeyword, Message: msgMissingKeyword,
			Data: prev.Data, ActiveAlert: prev.ActiveAlert})
	}

	p.publish(State{Status: StatusLoading, IsLoading: true, Message: msgLoading,
		Data: prev.Data, ActiveAlert: prev.ActiveAlert, NewCount: prev.NewCount})

	existing := domain.Dedup(p.deps.Store.GetAlertsByKeyword(ctx, p.params.Keyword))

	entries, err := p.fetchEntries(ctx)
	if err != nil {
		lgr.Printf("[WARN] failed to refresh alerts for %q from %s: %v", p.params.Keyword, p.params.URL, err)
		return p.publish(State{Status: StatusError, Err: err, Message: msgFailed,
			Data: prev.Data, ActiveAlert: prev.ActiveAlert})
	}

	if len(entries) == 0 {
		msg := msgNothingNew
		if len(existing) == 0 {
			msg = msgNoAlertsYet
		}
		sortByPublished(existing)
		return p.publish(State{Status: StatusSuccess, Message: msg, Data: existing, ActiveAlert: first(existing)})
	}

	candidates := newCandidates(entries, existing)
	saved, failed := p.saveAll(ctx, candidates)
	p.tagSentiment(ctx, saved)

	data := mergeCandidates(saved, existing, candidates, p.params.Keyword)
	sortByPublished(data)

	var msg string
	switch {
	case failed > 0:
		msg = fmt.Sprintf(msgSaveFailed, failed, len(candidates))
	case len(saved) > 0:
		msg = fmt.Sprintf(msgFoundNew, len(saved))
	default:
		msg = msgUpToDate
	}
	lgr.Printf("[INFO] %q: %d entries in feed, %d candidates, %d saved, %d failed, %d total",
		p.params.Keyword, len(entries), len(candidates), len(saved), failed, len(data))
	return p.publish(State{Status: StatusSuccess, Message: msg, Data: data, ActiveAlert: first(data), NewCount: len(saved)})
}

// fetchEntries downloads, decodes and normalizes the feed, duplicates within the feed removed
func (p *Poller) fetchEntries(ctx context.Context) ([]domain.Entry, error) {
	raw, err := p.deps.Fetcher.Fetch(ctx, p.params.URL)
	if err != nil {
		return nil, err
	}
	doc, err := feed.Decode(raw)
	if err != nil {
		return nil, err
	}
	return domain.Dedup(p.normalizer.Normalize(doc)), nil
}

// newCandidates drops entries whose link is already stored. Entries without link are kept,
// the store rejects them if the same title and published are already there.
func newCandidates(entries []domain.Entry, existing []domain.Alert) []domain.Entry {
	links := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		if a.Link != "" {
			links[a.Link] = struct{}{}
		}
	}

	res := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Link != "" {
			if _, found := links[e.Link]; found {
				continue
			}
		}
		res = append(res, e)
	}
	return res
}

// saveAll stores candidates concurrently. Each save has its own outcome, failed saves are
// logged and counted without affecting the others. Returns saved alerts in candidates order.
func (p *Poller) saveAll(ctx context.Context, candidates []domain.Entry) (saved []domain.Alert, failed int) {
	results := make([]*domain.Alert, len(candidates))
	var failures atomic.Int32

	var g errgroup.Group
	g.SetLimit(p.params.MaxWorkers)
	for i, entry := range candidates {
		g.Go(func() error {
			alert := domain.NewAlert(entry, p.params.Keyword)
			ok, err := p.deps.Store.SaveUniqueAlert(ctx, &alert)
			if err != nil {
				lgr.Printf("[WARN] failed to save alert for %q from %s, key %q: %v",
					p.params.Keyword, p.params.URL, entry.DedupKey(), err)
				failures.Add(1)
				return nil
			}
			if !ok {
				lgr.Printf("[DEBUG] alert for %q already stored, key %q", p.params.Keyword, entry.DedupKey())
				return nil
			}
			results[i] = &alert
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	saved = make([]domain.Alert, 0, len(candidates))
	for _, r := range results {
		if r != nil {
			saved = append(saved, *r)
		}
	}
	return saved, int(failures.Load())
}

// mergeCandidates joins the cycle's candidates with existing alerts and deduplicates the union.
// Saved alerts go first to keep their row ids, stored ones win over unsaved candidates.
func mergeCandidates(saved, existing []domain.Alert, candidates []domain.Entry, keyword string) []domain.Alert {
	res := make([]domain.Alert, 0, len(saved)+len(existing)+len(candidates))
	res = append(res, saved...)
	res = append(res, existing...)
	for _, e := range candidates {
		res = append(res, domain.NewAlert(e, keyword))
	}
	return domain.Dedup(res)
}

// tagSentiment sets sentiment on saved alerts if classifier is configured. Failures are logged only.
func (p *Poller) tagSentiment(ctx context.Context, saved []domain.Alert) {
	if p.deps.Classifier == nil || len(saved) == 0 || !p.alive.Load() {
		return
	}

	tags, err := p.deps.Classifier.Classify(ctx, p.params.Keyword, saved)
	if err != nil {
		lgr.Printf("[WARN] failed to classify sentiment for %q: %v", p.params.Keyword, err)
		return
	}
	for i := range saved {
		s, ok := tags[saved[i].RowID]
		if !ok {
			continue
		}
		if err := p.deps.Store.UpdateSentiment(ctx, saved[i].RowID, s); err != nil {
			lgr.Printf("[WARN] failed to store sentiment for alert %d: %v", saved[i].RowID, err)
			continue
		}
		saved[i].Sentiment = s
	}
}

// publish sets the state and sends it to subscribers, no-op after Stop
func (p *Poller) publish(s State) State {
	s.UpdatedAt = time.Now()
	if s.Data == nil {
		s.Data = []domain.Alert{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.alive.Load() {
		return s
	}
	p.state = s
	for _, ch := range p.subs {
		send(ch, s.clone())
	}
	return s.clone()
}

// send delivers s replacing an unread state if the subscriber is behind
func send(ch chan State, s State) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}

// sortByPublished orders alerts most recently published first, newer rows first on ties.
// Alerts with unparseable published go last.
func sortByPublished(alerts []domain.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		ti, tj := alerts[i].PublishedTime(), alerts[j].PublishedTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return alerts[i].RowID > alerts[j].RowID
	})
}

func first(alerts []domain.Alert) *domain.Alert {
	if len(alerts) == 0 {
		return nil
	}
	a := alerts[0]
	return &a
}
