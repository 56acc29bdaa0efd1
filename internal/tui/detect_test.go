package tui

import (
	"testing"
)

func TestDetectMode_NonInteractiveOverrides(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"SPARKIFY_NON_INTERACTIVE", map[string]string{"SPARKIFY_NON_INTERACTIVE": "1"}},
		{"CI", map[string]string{"CI": "true"}},
		{"NO_COLOR", map[string]string{"NO_COLOR": "1"}},
		// only "1" is an override; the terminal check still applies
		{"override wrong value", map[string]string{"SPARKIFY_NON_INTERACTIVE": "true"}},
		{"no terminal", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"SPARKIFY_NON_INTERACTIVE", "CI", "NO_COLOR"} {
				t.Setenv(k, tt.env[k])
			}

			if got := DetectMode(); got != ModeNonInteractive {
				t.Errorf("DetectMode() = %d, want ModeNonInteractive", got)
			}
			if IsInteractive() {
				t.Error("IsInteractive() = true, want false")
			}
		})
	}
}
