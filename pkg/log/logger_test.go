package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if err := Setup("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestWithAddsComponentField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	if err := Setup("info"); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	lg := With("simulation")
	lg.Info().Msg("run started")

	out := buf.String()
	if !strings.Contains(out, "simulation") || !strings.Contains(out, "run started") {
		t.Errorf("unexpected log output: %q", out)
	}
}
