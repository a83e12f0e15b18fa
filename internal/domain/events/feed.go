package events

import (
	"context"
	"sort"
	"time"
)

// FeedItem is one event enriched with display fields for the merged feed.
type FeedItem struct {
	ID          string    `json:"id"`
	Source      Kind      `json:"source"`
	SubjectID   string    `json:"subjectId"`
	SubjectName string    `json:"subjectName"`
	EventName   string    `json:"eventName"`
	OldValue    *string   `json:"oldValue,omitempty"`
	NewValue    *string   `json:"newValue,omitempty"`
	ActorName   string    `json:"actorName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListCompanyEvents returns the audit trail for one company, newest first.
func (s *Service) ListCompanyEvents(ctx context.Context, companyID string, limit, offset int) ([]FeedItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.company_id, c.name, e.event_name, e.old_value, e.new_value,
           COALESCE(u.first_name || ' ' || u.last_name, ''), e.created_at
    FROM company_events e
    JOIN companies c ON c.id = e.company_id
    LEFT JOIN users u ON u.id = e.created_by
    WHERE e.company_id = $1
    ORDER BY e.created_at DESC, e.id
    LIMIT $2 OFFSET $3
  `, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFeed(rows, KindCompany)
}

// ListEmployeeEvents returns the audit trail for one employee, newest first.
func (s *Service) ListEmployeeEvents(ctx context.Context, employeeID string, limit, offset int) ([]FeedItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.employee_id, emp.first_name || ' ' || emp.last_name, e.event_name, e.old_value, e.new_value,
           COALESCE(u.first_name || ' ' || u.last_name, ''), e.created_at
    FROM employee_events e
    JOIN employees emp ON emp.id = e.employee_id
    LEFT JOIN users u ON u.id = e.created_by
    WHERE e.employee_id = $1
    ORDER BY e.created_at DESC, e.id
    LIMIT $2 OFFSET $3
  `, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFeed(rows, KindEmployee)
}

// MergedFeed unions both event tables into one time-sorted sequence.
func (s *Service) MergedFeed(ctx context.Context, limit, offset int) ([]FeedItem, error) {
	companyItems, err := s.fetchAll(ctx, KindCompany)
	if err != nil {
		return nil, err
	}
	employeeItems, err := s.fetchAll(ctx, KindEmployee)
	if err != nil {
		return nil, err
	}

	merged := MergeFeeds(companyItems, employeeItems)
	if offset >= len(merged) {
		return []FeedItem{}, nil
	}
	merged = merged[offset:]
	if limit > 0 && limit < len(merged) {
		merged = merged[:limit]
	}
	return merged, nil
}

// MergeFeeds concatenates and sorts feed items descending by creation time.
// Equal timestamps break on source (company before employee), then id, so the
// ordering is deterministic across calls.
func MergeFeeds(feeds ...[]FeedItem) []FeedItem {
	var merged []FeedItem
	for _, feed := range feeds {
		merged = append(merged, feed...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		}
		if merged[i].Source != merged[j].Source {
			return merged[i].Source < merged[j].Source
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}

func (s *Service) fetchAll(ctx context.Context, kind Kind) ([]FeedItem, error) {
	query := `
    SELECT e.id, e.employee_id, emp.first_name || ' ' || emp.last_name, e.event_name, e.old_value, e.new_value,
           COALESCE(u.first_name || ' ' || u.last_name, ''), e.created_at
    FROM employee_events e
    JOIN employees emp ON emp.id = e.employee_id
    LEFT JOIN users u ON u.id = e.created_by
  `
	if kind == KindCompany {
		query = `
    SELECT e.id, e.company_id, c.name, e.event_name, e.old_value, e.new_value,
           COALESCE(u.first_name || ' ' || u.last_name, ''), e.created_at
    FROM company_events e
    JOIN companies c ON c.id = e.company_id
    LEFT JOIN users u ON u.id = e.created_by
  `
	}

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFeed(rows, kind)
}

type feedRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanFeed(rows feedRows, kind Kind) ([]FeedItem, error) {
	var out []FeedItem
	for rows.Next() {
		item := FeedItem{Source: kind}
		if err := rows.Scan(&item.ID, &item.SubjectID, &item.SubjectName, &item.EventName, &item.OldValue, &item.NewValue, &item.ActorName, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
