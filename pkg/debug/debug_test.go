package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(false)

	Log("hello %d", 1)
	LogTiming("x", time.Millisecond)
	LogEnterExit("fn")()
	Dump("v", 3)

	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q", buf.String())
	}
}

func TestEnabledWritesWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(true)
	defer SetEnabled(false)

	Log("genre %q toggled", "Drama")
	LogIf(false, "skipped")
	Dump("split", 8.0)
	LogEnterExit("Compute")()

	out := buf.String()
	for _, want := range []string{`[MQ_DEBUG] genre "Drama" toggled`, "-> Compute", "<- Compute", "split: float64 = 8"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "skipped") {
		t.Error("LogIf(false) wrote output")
	}
}
