package poller

import (
	"time"

	"github.com/umputun/alertscope/pkg/domain"
)

// Status of the polling controller
type Status string

// enum of poller statuses
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is a snapshot of the poller exposed to subscribers
type State struct {
	Status      Status
	Data        []domain.Alert // deduplicated alerts, most recently published first
	Err         error
	IsLoading   bool
	Message     string
	ActiveAlert *domain.Alert // most recent alert, kept on failed cycles
	NewCount    int           // alerts stored by the last successful cycle
	UpdatedAt   time.Time
}

// status messages
const (
	msgMissingURL     = "Feed URL is missing"
	msgMissingKeyword = "Search keyword is missing"
	msgLoading        = "Refreshing alerts"
	msgNoAlertsYet    = "No alerts found yet"
	msgNothingNew     = "No new alerts in the feed"
	msgUpToDate       = "Alerts are up to date"
	msgFoundNew       = "Found %d new alerts"
	msgSaveFailed     = "Failed to store %d of %d new alerts"
	msgFailed         = "Failed to refresh alerts"
)

// ErrorText returns error message or empty string
func (s State) ErrorText() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

func (s State) clone() State {
	res := s
	if s.Data != nil {
		res.Data = make([]domain.Alert, len(s.Data))
		copy(res.Data, s.Data)
	}
	if s.ActiveAlert != nil {
		active := *s.ActiveAlert
		res.ActiveAlert = &active
	}
	return res
}
