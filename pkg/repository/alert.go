package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/alertscope/pkg/domain"
)

// AlertRepository handles alert persistence partitioned by keyword
type AlertRepository struct {
	db *sqlx.DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *sqlx.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// alertRow is the db representation of domain.Alert
type alertRow struct {
	ID        int64   `db:"id"`
	EntryID   string  `db:"entry_id"`
	Title     string  `db:"title"`
	Content   string  `db:"content"`
	Link      string  `db:"link"`
	Published string  `db:"published"`
	Source    string  `db:"source"`
	Keyword   string  `db:"keyword"`
	Sentiment string  `db:"sentiment"`
	CreatedAt sqlTime `db:"created_at"`
}

const alertColumns = "id, entry_id, title, content, link, published, source, keyword, sentiment, created_at"

// SaveUniqueAlert inserts alert unless the keyword partition already holds one with the same
// title and published. Returns true if the row was inserted, RowID and CreatedAt are set in this case.
// The check and the insert are a single statement, concurrent savers can't produce duplicates.
func (r *AlertRepository) SaveUniqueAlert(ctx context.Context, alert *domain.Alert) (bool, error) {
	if alert == nil {
		return false, errors.New("save alert: nil alert")
	}
	keyword := strings.TrimSpace(alert.Keyword)
	if keyword == "" {
		return false, errors.New("save alert: empty keyword")
	}

	query := `
		INSERT INTO alerts (entry_id, title, content, link, published, source, keyword, sentiment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(keyword, title, published) DO NOTHING
		RETURNING id, created_at
	`

	var inserted bool
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		var res struct {
			ID        int64   `db:"id"`
			CreatedAt sqlTime `db:"created_at"`
		}
		err := r.db.GetContext(ctx, &res, query, alert.ID, alert.Title, alert.Content, alert.Link,
			alert.Published, alert.Source, keyword, string(alert.Sentiment))
		switch {
		case errors.Is(err, sql.ErrNoRows):
			inserted = false
			return nil
		case err != nil && isLockError(err):
			return err // repeater will retry this
		case err != nil:
			return &criticalError{err: fmt.Errorf("save alert: %w", err)}
		}
		inserted = true
		alert.RowID = res.ID
		alert.CreatedAt = res.CreatedAt.Time
		alert.Keyword = keyword
		return nil
	}, &criticalError{})
	if err != nil {
		var ce *criticalError
		if errors.As(err, &ce) {
			return false, ce.err
		}
		return false, fmt.Errorf("save alert: %w", err)
	}
	return inserted, nil
}

// GetAlertsByKeyword returns all alerts stored for keyword, most recently published first.
// Read failures are logged and reported as an empty result.
func (r *AlertRepository) GetAlertsByKeyword(ctx context.Context, keyword string) []domain.Alert {
	keyword = strings.TrimSpace(keyword)
	var rows []alertRow
	query := "SELECT " + alertColumns + " FROM alerts WHERE keyword = ? ORDER BY published DESC, id DESC"
	if err := r.db.SelectContext(ctx, &rows, query, keyword); err != nil {
		lgr.Printf("[WARN] failed to get alerts for %q: %v", keyword, err)
		return []domain.Alert{}
	}
	return toDomainAlerts(rows)
}

// ListAlerts returns a page of alerts for keyword, most recently published first
func (r *AlertRepository) ListAlerts(ctx context.Context, keyword string, limit, offset int) ([]domain.Alert, error) {
	if limit <= 0 {
		limit = -1 // no limit in sqlite
	}
	if offset < 0 {
		offset = 0
	}

	var rows []alertRow
	query := "SELECT " + alertColumns + " FROM alerts WHERE keyword = ? ORDER BY published DESC, id DESC LIMIT ? OFFSET ?"
	if err := r.db.SelectContext(ctx, &rows, query, strings.TrimSpace(keyword), limit, offset); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return toDomainAlerts(rows), nil
}

// CountAlerts returns number of alerts stored for keyword
func (r *AlertRepository) CountAlerts(ctx context.Context, keyword string) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM alerts WHERE keyword = ?", strings.TrimSpace(keyword)); err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return count, nil
}

// Keywords returns all keywords with at least one stored alert
func (r *AlertRepository) Keywords(ctx context.Context) ([]string, error) {
	keywords := []string{}
	if err := r.db.SelectContext(ctx, &keywords, "SELECT DISTINCT keyword FROM alerts ORDER BY keyword"); err != nil {
		return nil, fmt.Errorf("get keywords: %w", err)
	}
	return keywords, nil
}

// UpdateSentiment sets sentiment tag for a stored alert
func (r *AlertRepository) UpdateSentiment(ctx context.Context, rowID int64, sentiment domain.Sentiment) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "UPDATE alerts SET sentiment = ? WHERE id = ?", string(sentiment), rowID)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("update sentiment: %w", err)}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get affected rows: %w", err)}
		}
		if n == 0 {
			return &criticalError{err: fmt.Errorf("update sentiment: alert %d not found", rowID)}
		}
		return nil
	}, &criticalError{})
	if err != nil {
		var ce *criticalError
		if errors.As(err, &ce) {
			return ce.err
		}
		return fmt.Errorf("update sentiment: %w", err)
	}
	return nil
}

func toDomainAlerts(rows []alertRow) []domain.Alert {
	res := make([]domain.Alert, 0, len(rows))
	for _, row := range rows {
		res = append(res, domain.Alert{
			Entry: domain.Entry{
				ID:        row.EntryID,
				Title:     row.Title,
				Content:   row.Content,
				Link:      row.Link,
				Published: row.Published,
				Source:    row.Source,
			},
			RowID:     row.ID,
			Keyword:   row.Keyword,
			Sentiment: domain.ParseSentiment(row.Sentiment),
			CreatedAt: row.CreatedAt.Time,
		})
	}
	return res
}
