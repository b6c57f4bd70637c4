package cmd

import (
	"strings"
	"testing"
)

func TestVersionCommandPrintsVersion(t *testing.T) {
	out := captureStdout(t, func() {
		versionCmd.Run(versionCmd, nil)
	})
	if !strings.Contains(out, Version) {
		t.Errorf("expected version output to contain %q, got %q", Version, out)
	}
	if !strings.Contains(out, "Commit:") {
		t.Errorf("expected version output to contain commit info, got %q", out)
	}
}
