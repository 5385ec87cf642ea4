package helpers

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"valid", "45s", 45 * time.Second},
		{"empty falls back", "", time.Minute},
		{"garbage falls back", "soon", time.Minute},
		{"negative falls back", "-5s", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDuration("test", tt.value, time.Minute); got != tt.want {
				t.Fatalf("ParseDuration(%q): got=%v want=%v", tt.value, got, tt.want)
			}
		})
	}
}
