package roi

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	src := ramp(t, 4, 4)
	r := mustRect(t, Pt(1, 1), Sz(0, 2))
	if _, err := Extract(src, [2]int{0, 1}, Identity, r); !errors.Is(err, ErrDegenerateShape) {
		t.Fatalf("got error %v, want ErrDegenerateShape", err)
	}
	out := buf.String()
	if !strings.Contains(out, "degenerate shape") || !strings.Contains(out, "kind=rect") {
		t.Errorf("unexpected log output %q", out)
	}

	buf.Reset()
	if _, err := Extract(src, [2]int{0, 1}, Scale(0, 0), mustRect(t, Pt(0, 0), Sz(1, 1))); !errors.Is(err, ErrSingular) {
		t.Fatalf("got error %v, want ErrSingular", err)
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("unexpected log output %q", buf.String())
	}

	SetLogger(nil)
	buf.Reset()
	Extract(src, [2]int{0, 1}, Identity, r)
	if buf.Len() != 0 {
		t.Errorf("logged %q after resetting the logger", buf.String())
	}
}
