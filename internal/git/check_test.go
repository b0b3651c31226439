package git

import (
	"context"
	"testing"
)

func TestCheck(t *testing.T) {
	t.Parallel()
	if err := Check(context.Background()); err != nil {
		t.Fatalf("Check() = %v, want nil", err)
	}
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in           string
		major, minor int
		ok           bool
	}{
		{"git version 2.39.3 (Apple Git-146)", 2, 39, true},
		{"git version 2.43.0\n", 2, 43, true},
		{"git version 2.45.1.windows.1", 2, 45, true},
		{"git version 1.8", 1, 8, true},
		{"git version custom", 0, 0, false},
		{"hub version 2.14.2", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		major, minor, ok := parseVersion(tt.in)
		if major != tt.major || minor != tt.minor || ok != tt.ok {
			t.Errorf("parseVersion(%q) = %d, %d, %v, want %d, %d, %v", tt.in, major, minor, ok, tt.major, tt.minor, tt.ok)
		}
	}
}
