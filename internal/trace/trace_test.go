package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"", LevelOff, false},
		{"ERROR", LevelError, false},
		{"phase", LevelPhase, false},
		{"detail", LevelDetail, false},
		{"Debug", LevelDebug, false},
		{"loud", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelScopes(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopeDriver) || LevelPhase.ShouldEmit(ScopeFile) {
		t.Error("phase level must emit only driver scope")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelDetail.ShouldEmit(ScopePass) {
		t.Error("detail level must emit driver and file scopes")
	}
	if !LevelDebug.ShouldEmit(ScopePass) {
		t.Error("debug level must emit pass scope")
	}
	if LevelOff.ShouldEmit(ScopeDriver) {
		t.Error("off level must not emit")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)

	root := Begin(tr, ScopeDriver, "fmt", 0)
	child := Begin(tr, ScopePass, "tabs", root.ID())
	child.WithExtra("changed", "true").End("")
	root.End("2 files")

	out := buf.String()
	for _, want := range []string{"→ fmt", "→ tabs", "← tabs {changed=true}", "← fmt (2 files)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStreamTracerFiltersScopes(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopeFile, "file:a.py", 0)
	span.End("")
	if buf.Len() != 0 {
		t.Errorf("file scope must be filtered at phase level, got %q", buf.String())
	}
	if span.ID() != 0 {
		t.Errorf("filtered span must have zero id, got %d", span.ID())
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	Point(tr, ScopeFile, "skip", "cached", 0)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["kind"] != "point" || got["name"] != "skip" || got["detail"] != "cached" {
		t.Errorf("unexpected event: %v", got)
	}
}

func TestErrorLevelRecordsButDoesNotStream(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelError, Mode: ModeBoth, Output: &buf, RingSize: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 6; i++ {
		Begin(tr, ScopePass, "pass", 0).End("")
	}
	if buf.Len() != 0 {
		t.Errorf("error level must not stream, got %q", buf.String())
	}
	ring, ok := RingOf(tr)
	if !ok {
		t.Fatal("expected ring tracer")
	}
	if got := len(ring.Snapshot()); got != 4 {
		t.Errorf("ring holds %d events, want 4", got)
	}
}

func TestRingSnapshotOrder(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeFile, Name: name})
	}
	events := ring.Snapshot()
	var names []string
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	if strings.Join(names, ",") != "b,c,d" {
		t.Errorf("snapshot order = %v, want b,c,d", names)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("dump = %q", buf.String())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("missing tracer must resolve to Nop")
	}
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Error("tracer not propagated")
	}

	span := Begin(tr, ScopeDriver, "fmt", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx).SpanID != span.ID() {
		t.Errorf("CurrentSpan = %d, want %d", CurrentSpan(ctx).SpanID, span.ID())
	}
}

func TestNewOffReturnsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Error("off tracer must be disabled")
	}
}
