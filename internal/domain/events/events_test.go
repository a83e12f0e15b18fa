package events

import (
	"testing"
	"time"
)

func TestKnownEvent(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
		want bool
	}{
		{KindCompany, CompanyCreated, true},
		{KindCompany, CompanyNameChanged, true},
		{KindCompany, SalaryCreated, false},
		{KindEmployee, SalaryCreated, true},
		{KindEmployee, CompanyChanged, true},
		{KindEmployee, "Employee_Promoted", false},
		{Kind("invoice"), CompanyCreated, false},
	}

	for _, tt := range tests {
		if got := KnownEvent(tt.kind, tt.name); got != tt.want {
			t.Errorf("KnownEvent(%q, %q) = %v, want %v", tt.kind, tt.name, got, tt.want)
		}
	}
}

func TestMergeFeedsOrdersNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	companies := []FeedItem{
		{ID: "c1", Source: KindCompany, CreatedAt: base},
		{ID: "c2", Source: KindCompany, CreatedAt: base.Add(2 * time.Hour)},
	}
	employees := []FeedItem{
		{ID: "e1", Source: KindEmployee, CreatedAt: base.Add(time.Hour)},
	}

	merged := MergeFeeds(companies, employees)
	if len(merged) != 3 {
		t.Fatalf("len = %d, want 3", len(merged))
	}
	wantIDs := []string{"c2", "e1", "c1"}
	for i, want := range wantIDs {
		if merged[i].ID != want {
			t.Errorf("merged[%d].ID = %q, want %q", i, merged[i].ID, want)
		}
	}
}

func TestMergeFeedsTiebreak(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	companies := []FeedItem{{ID: "b", Source: KindCompany, CreatedAt: at}}
	employees := []FeedItem{
		{ID: "a", Source: KindEmployee, CreatedAt: at},
		{ID: "c", Source: KindEmployee, CreatedAt: at},
	}

	// Equal timestamps: company wins the source tiebreak, then ids ascend.
	merged := MergeFeeds(companies, employees)
	wantIDs := []string{"b", "a", "c"}
	for i, want := range wantIDs {
		if merged[i].ID != want {
			t.Errorf("merged[%d].ID = %q, want %q", i, merged[i].ID, want)
		}
	}
}

func TestMergeFeedsEmpty(t *testing.T) {
	if got := MergeFeeds(nil, nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d items", len(got))
	}
}
