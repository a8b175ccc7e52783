package logger

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"verbose", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if _, ok := parseLevel(tt.in); ok != tt.wantOK {
				t.Errorf("parseLevel(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
		})
	}
}

func TestNewAndWith(t *testing.T) {
	log := New("error", false)
	child := log.With(String("component", "test"))
	if child == nil {
		t.Fatal("With() returned nil")
	}
	child.Info("dropped below error level", Int("n", 1), Bool("ok", true))

	NewNop().Error("discarded")
}
