package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/alertscope/pkg/domain"
	"github.com/umputun/alertscope/pkg/poller"
	"github.com/umputun/alertscope/pkg/scheduler"
)

const (
	defaultAlertsLimit = 50
	maxAlertsLimit     = 500
)

// stateResponse is the wire form of a poller state
type stateResponse struct {
	Status      poller.Status  `json:"status"`
	IsLoading   bool           `json:"is_loading"`
	Message     string         `json:"message"`
	Error       string         `json:"error,omitempty"`
	NewCount    int            `json:"new_count"`
	ActiveAlert *domain.Alert  `json:"active_alert,omitempty"`
	Data        []domain.Alert `json:"data"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type watchResponse struct {
	URL         string        `json:"url"`
	Keyword     string        `json:"keyword"`
	AutoRefresh bool          `json:"auto_refresh"`
	Interval    string        `json:"interval"`
	State       stateResponse `json:"state"`
}

type alertsResponse struct {
	Keyword string         `json:"keyword"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	Alerts  []domain.Alert `json:"alerts"`
}

func toStateResponse(st poller.State) stateResponse {
	data := st.Data
	if data == nil {
		data = []domain.Alert{}
	}
	return stateResponse{
		Status:      st.Status,
		IsLoading:   st.IsLoading,
		Message:     st.Message,
		Error:       st.ErrorText(),
		NewCount:    st.NewCount,
		ActiveAlert: st.ActiveAlert,
		Data:        data,
		UpdatedAt:   st.UpdatedAt,
	}
}

func toWatchResponse(ws scheduler.WatchState) watchResponse {
	return watchResponse{
		URL:         ws.URL,
		Keyword:     ws.Keyword,
		AutoRefresh: ws.AutoRefresh,
		Interval:    ws.Interval.String(),
		State:       toStateResponse(ws.State),
	}
}

// GET /api/v1/status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	keywords, err := s.alerts.Keywords(r.Context())
	if err != nil {
		lgr.Printf("[WARN] failed to get stored keywords: %v", err)
		renderError(w, r, fmt.Errorf("failed to get stored keywords"), http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"time":     time.Now().UTC(),
		"watches":  len(s.scheduler.Watches()),
		"keywords": keywords,
	})
}

// GET /api/v1/watches
func (s *Server) watchesHandler(w http.ResponseWriter, r *http.Request) {
	watches := s.scheduler.Watches()
	res := make([]watchResponse, 0, len(watches))
	for _, ws := range watches {
		res = append(res, toWatchResponse(ws))
	}
	renderJSON(w, r, http.StatusOK, res)
}

// GET /api/v1/watches/{keyword}
func (s *Server) watchStateHandler(w http.ResponseWriter, r *http.Request) {
	keyword := r.PathValue("keyword")
	st, err := s.scheduler.State(keyword)
	if err != nil {
		renderWatchError(w, r, keyword, err)
		return
	}
	renderJSON(w, r, http.StatusOK, toStateResponse(st))
}

// POST /api/v1/watches/{keyword}/refresh runs a refresh cycle and returns the resulting state
func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	keyword := r.PathValue("keyword")
	st, err := s.scheduler.RefreshNow(r.Context(), keyword)
	if err != nil {
		renderWatchError(w, r, keyword, err)
		return
	}
	renderJSON(w, r, http.StatusOK, toStateResponse(st))
}

// GET /api/v1/watches/{keyword}/stream sends state changes as server-sent events
func (s *Server) watchStreamHandler(w http.ResponseWriter, r *http.Request) {
	keyword := r.PathValue("keyword")
	updates, cancel, err := s.scheduler.Subscribe(keyword)
	if err != nil {
		renderWatchError(w, r, keyword, err)
		return
	}
	defer cancel()

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		lgr.Printf("[WARN] can't reset write deadline for %s stream: %v", keyword, err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		lgr.Printf("[WARN] streaming not supported: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			if err := writeEvent(w, "state", toStateResponse(st)); err != nil {
				lgr.Printf("[DEBUG] stream for %s closed: %v", keyword, err)
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

// GET /api/v1/alerts/{keyword}?limit=N&offset=M
func (s *Server) alertsHandler(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.PathValue("keyword"))
	if keyword == "" {
		renderError(w, r, errors.New("keyword is required"), http.StatusBadRequest)
		return
	}

	limit, err := queryInt(r, "limit", defaultAlertsLimit)
	if err != nil || limit < 1 {
		renderError(w, r, errors.New("invalid limit"), http.StatusBadRequest)
		return
	}
	limit = min(limit, maxAlertsLimit)

	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		renderError(w, r, errors.New("invalid offset"), http.StatusBadRequest)
		return
	}

	total, err := s.alerts.CountAlerts(r.Context(), keyword)
	if err != nil {
		lgr.Printf("[WARN] failed to count alerts for %q: %v", keyword, err)
		renderError(w, r, errors.New("failed to count alerts"), http.StatusInternalServerError)
		return
	}

	alerts, err := s.alerts.ListAlerts(r.Context(), keyword, limit, offset)
	if err != nil {
		lgr.Printf("[WARN] failed to list alerts for %q: %v", keyword, err)
		renderError(w, r, errors.New("failed to list alerts"), http.StatusInternalServerError)
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}

	renderJSON(w, r, http.StatusOK, alertsResponse{Keyword: keyword, Total: total, Limit: limit, Offset: offset, Alerts: alerts})
}

func renderWatchError(w http.ResponseWriter, r *http.Request, keyword string, err error) {
	if errors.Is(err, scheduler.ErrUnknownWatch) {
		renderError(w, r, fmt.Errorf("watch %q not found", keyword), http.StatusNotFound)
		return
	}
	lgr.Printf("[WARN] watch %q: %v", keyword, err)
	renderError(w, r, err, http.StatusInternalServerError)
}

func writeEvent(w http.ResponseWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
