package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("TALLY_TEST_DIR", "/opt/tally")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "absolute unchanged", input: "/var/lib/tally.db", want: "/var/lib/tally.db"},
		{name: "env var", input: "$TALLY_TEST_DIR/tally.db", want: "/opt/tally/tally.db"},
		{name: "tilde user untouched", input: "~postgres/tally.db", want: "~postgres/tally.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.input); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandPath_Tilde(t *testing.T) {
	got := ExpandPath("~/data/tally.db")
	if strings.HasPrefix(got, "~") {
		t.Errorf("tilde not expanded: %q", got)
	}
	if !strings.HasSuffix(got, filepath.Join("data", "tally.db")) {
		t.Errorf("expanded path lost suffix: %q", got)
	}

	if got := ExpandPath("~"); strings.HasPrefix(got, "~") || got == "" {
		t.Errorf("bare tilde not expanded: %q", got)
	}
}

func TestDefaultDatabasePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	if got := DefaultDatabasePath(); got != filepath.Join("/tmp/xdg", "tally", "tally.db") {
		t.Errorf("DefaultDatabasePath with XDG_DATA_HOME = %q", got)
	}

	t.Setenv("XDG_DATA_HOME", "")
	got := DefaultDatabasePath()
	if !strings.HasSuffix(got, filepath.Join("tally", "tally.db")) {
		t.Errorf("DefaultDatabasePath = %q, want tally/tally.db suffix", got)
	}
}
