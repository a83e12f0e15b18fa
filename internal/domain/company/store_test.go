package company

import (
	"strings"
	"testing"
)

func TestNameTakenQueryWithoutExclusion(t *testing.T) {
	query, args := nameTakenQuery("Acme", "")
	if strings.Contains(query, "$2") {
		t.Errorf("create-path query must not bind an exclusion id: %s", query)
	}
	if len(args) != 1 {
		t.Errorf("args = %d, want 1", len(args))
	}
}

func TestNameTakenQueryWithExclusion(t *testing.T) {
	query, args := nameTakenQuery("Acme", "row-id")
	if !strings.Contains(query, "id != $2") {
		t.Errorf("update-path query must exclude the row itself: %s", query)
	}
	if len(args) != 2 || args[1] != "row-id" {
		t.Errorf("args = %v, want name and row-id", args)
	}
}
