package password

import (
	"strings"
	"testing"
)

func TestGenerateLength(t *testing.T) {
	got, err := Generate(16)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 16 {
		t.Errorf("len = %d, want 16", len(got))
	}
}

func TestGenerateClampsShortLength(t *testing.T) {
	got, err := Generate(3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 8 {
		t.Errorf("len = %d, want 8", len(got))
	}
}

func TestGenerateContainsAllClasses(t *testing.T) {
	for i := 0; i < 20; i++ {
		got, err := Generate(12)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		for _, class := range []string{lower, upper, digits, symbols} {
			if !strings.ContainsAny(got, class) {
				t.Errorf("password %q missing a character from %q", got, class)
			}
		}
	}
}
