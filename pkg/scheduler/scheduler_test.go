package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/alertscope/pkg/domain"
	"github.com/umputun/alertscope/pkg/poller"
	"github.com/umputun/alertscope/pkg/poller/mocks"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Alerts</title>
	<entry>
		<id>1</id>
		<title>first</title>
		<link href="https://example.com/1"/>
		<published>2024-01-01T10:00:00Z</published>
	</entry>
</feed>`

func testStore() *mocks.StoreMock {
	var mu sync.Mutex
	stored := map[string][]domain.Alert{}
	var nextID int64
	return &mocks.StoreMock{
		GetAlertsByKeywordFunc: func(_ context.Context, keyword string) []domain.Alert {
			mu.Lock()
			defer mu.Unlock()
			return append([]domain.Alert{}, stored[keyword]...)
		},
		SaveUniqueAlertFunc: func(_ context.Context, alert *domain.Alert) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			for _, a := range stored[alert.Keyword] {
				if a.Title == alert.Title && a.Published == alert.Published {
					return false, nil
				}
			}
			nextID++
			alert.RowID = nextID
			stored[alert.Keyword] = append(stored[alert.Keyword], *alert)
			return true, nil
		},
		UpdateSentimentFunc: func(context.Context, int64, domain.Sentiment) error { return nil },
	}
}

func testFetcher() *mocks.FetcherMock {
	return &mocks.FetcherMock{FetchFunc: func(context.Context, string) (string, error) { return testFeed, nil }}
}

func TestNewScheduler(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s, err := NewScheduler(Params{
			Fetcher: testFetcher(),
			Store:   testStore(),
			Watches: []Watch{
				{URL: "https://example.com/golang", Keyword: " golang ", AutoRefresh: true, Interval: time.Minute},
				{URL: "https://example.com/rust", Keyword: "rust"},
			},
		})
		require.NoError(t, err)

		p, ok := s.Poller("golang")
		require.True(t, ok)
		assert.Equal(t, "golang", p.Params().Keyword)
		assert.Equal(t, time.Minute, p.Params().Interval)
		assert.True(t, p.Params().AutoRefresh)

		p, ok = s.Poller("rust")
		require.True(t, ok)
		assert.Equal(t, 60*time.Second, p.Params().Interval, "poller default")

		_, ok = s.Poller("python")
		assert.False(t, ok)

		watches := s.Watches()
		require.Len(t, watches, 2)
		assert.Equal(t, "golang", watches[0].Keyword)
		assert.Equal(t, "rust", watches[1].Keyword)
		assert.Equal(t, poller.StatusIdle, watches[0].State.Status)
	})

	t.Run("duplicate keyword", func(t *testing.T) {
		_, err := NewScheduler(Params{Watches: []Watch{
			{URL: "https://example.com/1", Keyword: "golang"},
			{URL: "https://example.com/2", Keyword: "golang "},
		}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate watch for keyword "golang"`)
	})

	t.Run("case differs is not duplicate", func(t *testing.T) {
		_, err := NewScheduler(Params{Watches: []Watch{
			{URL: "https://example.com/1", Keyword: "AI"},
			{URL: "https://example.com/2", Keyword: "ai"},
		}})
		require.NoError(t, err)
	})

	t.Run("empty keyword", func(t *testing.T) {
		_, err := NewScheduler(Params{Watches: []Watch{{URL: "https://example.com/1", Keyword: " "}}})
		require.ErrorIs(t, err, poller.ErrMissingKeyword)
	})
}

func TestScheduler_StartStop(t *testing.T) {
	fetcher := testFetcher()
	store := testStore()
	s, err := NewScheduler(Params{
		Fetcher: fetcher,
		Store:   store,
		Watches: []Watch{
			{URL: "https://example.com/golang", Keyword: "golang", AutoRefresh: true, Interval: 10 * time.Millisecond},
			{URL: "https://example.com/rust", Keyword: "rust", AutoRefresh: false},
		},
		MaxWorkers: 2,
	})
	require.NoError(t, err)

	s.Start(context.Background())
	s.Start(context.Background()) // no-op

	assert.Eventually(t, func() bool {
		for _, w := range s.Watches() {
			if w.State.Status != poller.StatusSuccess {
				return false
			}
		}
		return true
	}, 5*time.Second, 5*time.Millisecond)

	// each watch has own timer, golang keeps polling while rust ran once
	assert.Eventually(t, func() bool {
		golang, rust := 0, 0
		for _, c := range fetcher.FetchCalls() {
			switch c.URL {
			case "https://example.com/golang":
				golang++
			case "https://example.com/rust":
				rust++
			}
		}
		return golang >= 3 && rust == 1
	}, 5*time.Second, 5*time.Millisecond)

	s.Stop()
	calls := len(fetcher.FetchCalls())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, len(fetcher.FetchCalls()))

	for _, w := range s.Watches() {
		assert.Equal(t, 1, len(w.State.Data), "one alert per keyword partition")
	}
}

func TestScheduler_RefreshNow(t *testing.T) {
	s, err := NewScheduler(Params{
		Fetcher: testFetcher(),
		Store:   testStore(),
		Watches: []Watch{{URL: "https://example.com/golang", Keyword: "golang"}},
	})
	require.NoError(t, err)

	state, err := s.RefreshNow(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, poller.StatusSuccess, state.Status)
	assert.Equal(t, 1, state.NewCount)

	state, err = s.RefreshNow(context.Background(), " golang")
	require.NoError(t, err)
	assert.Equal(t, 0, state.NewCount)

	_, err = s.RefreshNow(context.Background(), "python")
	require.ErrorIs(t, err, ErrUnknownWatch)
}

func TestScheduler_StateAndSubscribe(t *testing.T) {
	s, err := NewScheduler(Params{
		Fetcher: testFetcher(),
		Store:   testStore(),
		Watches: []Watch{{URL: "https://example.com/golang", Keyword: "golang"}},
	})
	require.NoError(t, err)

	state, err := s.State("golang")
	require.NoError(t, err)
	assert.Equal(t, poller.StatusIdle, state.Status)
	_, err = s.State("python")
	require.ErrorIs(t, err, ErrUnknownWatch)

	ch, cancel, err := s.Subscribe("golang")
	require.NoError(t, err)
	assert.Equal(t, poller.StatusIdle, (<-ch).Status)

	_, err = s.RefreshNow(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, poller.StatusSuccess, (<-ch).Status, "latest state delivered")
	cancel()
	_, ok := <-ch
	assert.False(t, ok)

	_, _, err = s.Subscribe("python")
	require.ErrorIs(t, err, ErrUnknownWatch)

	s.Stop()
}
