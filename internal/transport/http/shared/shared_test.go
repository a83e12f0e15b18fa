package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, err = ParseDate("2026-03-15T10:30:00Z")
	if err != nil {
		t.Fatalf("ParseDate RFC3339: %v", err)
	}
	if got.Hour() != 10 {
		t.Errorf("hour = %d, want 10", got.Hour())
	}

	if _, err := ParseDate("15/03/2026"); err == nil {
		t.Error("expected error for unsupported format")
	}

	zero, err := ParseDate("")
	if err != nil || !zero.IsZero() {
		t.Errorf("empty input: got %v, %v", zero, err)
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 50, 0},
		{"explicit values", "?limit=20&offset=40", 20, 40},
		{"limit capped at max", "?limit=9999", 200, 0},
		{"garbage falls back", "?limit=abc&offset=-5", 50, 0},
		{"zero limit ignored", "?limit=0", 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/"+tt.query, nil)
			page := ParsePagination(req, 50, 200)
			if page.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", page.Limit, tt.wantLimit)
			}
			if page.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", page.Offset, tt.wantOffset)
			}
		})
	}
}
