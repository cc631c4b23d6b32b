// Package scheduler owns the pollers of all configured watches and controls their lifecycle.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/alertscope/pkg/poller"
)

// ErrUnknownWatch returned for a keyword not configured in the scheduler
var ErrUnknownWatch = errors.New("unknown watch")

// Watch is one tracked feed
type Watch struct {
	URL         string
	Keyword     string
	AutoRefresh bool
	Interval    time.Duration
}

// WatchState is a watch together with the current state of its poller
type WatchState struct {
	Watch
	State poller.State
}

// Params holds scheduler dependencies and configuration
type Params struct {
	Fetcher    poller.Fetcher
	Store      poller.Store
	Classifier poller.SentimentClassifier // optional
	Watches    []Watch
	MaxWorkers int // concurrent saves per cycle of each poller
}

// Scheduler runs a poller per watch, each with its own timer
type Scheduler struct {
	watches []Watch
	pollers map[string]*poller.Poller

	mu      sync.Mutex
	started bool
}

// NewScheduler makes pollers for all watches. Keywords are trimmed and must be unique.
func NewScheduler(params Params) (*Scheduler, error) {
	deps := poller.Deps{Fetcher: params.Fetcher, Store: params.Store, Classifier: params.Classifier}
	res := &Scheduler{pollers: make(map[string]*poller.Poller, len(params.Watches))}

	for _, w := range params.Watches {
		w.Keyword = strings.TrimSpace(w.Keyword)
		w.URL = strings.TrimSpace(w.URL)
		if w.Keyword == "" {
			return nil, fmt.Errorf("watch for %s: %w", w.URL, poller.ErrMissingKeyword)
		}
		if _, found := res.pollers[w.Keyword]; found {
			return nil, fmt.Errorf("duplicate watch for keyword %q", w.Keyword)
		}
		res.pollers[w.Keyword] = poller.New(deps, poller.Params{
			URL:         w.URL,
			Keyword:     w.Keyword,
			AutoRefresh: w.AutoRefresh,
			Interval:    w.Interval,
			MaxWorkers:  params.MaxWorkers,
		})
		res.watches = append(res.watches, w)
	}
	return res, nil
}

// Start starts all pollers
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	for _, w := range s.watches {
		s.pollers[w.Keyword].Start(ctx)
	}
	lgr.Printf("[INFO] scheduler started with %d watches", len(s.watches))
}

// Stop stops all pollers and waits for them to finish
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	var g errgroup.Group
	for _, p := range s.pollers {
		g.Go(func() error {
			p.Stop()
			return nil
		})
	}
	_ = g.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// Poller returns poller for keyword
func (s *Scheduler) Poller(keyword string) (*poller.Poller, bool) {
	p, ok := s.pollers[strings.TrimSpace(keyword)]
	return p, ok
}

// Watches returns all watches in configuration order with their current states
func (s *Scheduler) Watches() []WatchState {
	res := make([]WatchState, 0, len(s.watches))
	for _, w := range s.watches {
		res = append(res, WatchState{Watch: w, State: s.pollers[w.Keyword].State()})
	}
	return res
}

// RefreshNow runs a cycle for keyword immediately, regardless of its timer
func (s *Scheduler) RefreshNow(ctx context.Context, keyword string) (poller.State, error) {
	p, ok := s.Poller(keyword)
	if !ok {
		return poller.State{}, fmt.Errorf("refresh %q: %w", keyword, ErrUnknownWatch)
	}
	return p.Refresh(ctx), nil
}

// State returns current state of the keyword poller
func (s *Scheduler) State(keyword string) (poller.State, error) {
	p, ok := s.Poller(keyword)
	if !ok {
		return poller.State{}, fmt.Errorf("state of %q: %w", keyword, ErrUnknownWatch)
	}
	return p.State(), nil
}

// Subscribe returns the state stream of the keyword poller and the func to close it
func (s *Scheduler) Subscribe(keyword string) (<-chan poller.State, func(), error) {
	p, ok := s.Poller(keyword)
	if !ok {
		return nil, nil, fmt.Errorf("subscribe to %q: %w", keyword, ErrUnknownWatch)
	}
	ch, cancel := p.Subscribe()
	return ch, cancel, nil
}
