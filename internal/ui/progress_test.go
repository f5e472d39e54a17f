package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"white/internal/driver"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("white fmt", []string{"a.py", "b.py", "c.py"}, events).(*progressModel)

	m.applyEvent(driver.Event{File: "a.py", Stage: driver.StageFormat, Status: driver.StatusWorking})
	if got := itemLabel(m.items[0]); got != "formatting" {
		t.Errorf("label = %q, want formatting", got)
	}
	m.applyEvent(driver.Event{File: "a.py", Stage: driver.StageWrite, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.py", Stage: driver.StageWrite, Status: driver.StatusCached})
	m.applyEvent(driver.Event{File: "c.py", Stage: driver.StageRead, Status: driver.StatusError})
	m.applyEvent(driver.Event{File: "zzz.py", Stage: driver.StageWrite, Status: driver.StatusDone})
	if m.items[0].status != driver.StatusDone || m.items[1].status != driver.StatusCached {
		t.Errorf("items = %+v", m.items)
	}
	if m.finished != 3 || m.cached != 1 || m.errors != 1 {
		t.Errorf("counters finished=%d cached=%d errors=%d", m.finished, m.cached, m.errors)
	}

	// a late event for a finished file is ignored
	m.applyEvent(driver.Event{File: "a.py", Stage: driver.StageRead, Status: driver.StatusWorking})
	if m.items[0].status != driver.StatusDone || m.finished != 3 {
		t.Errorf("finished file changed: %+v", m.items[0])
	}

	m.applyEvent(driver.Event{Stage: driver.StageFormat, Status: driver.StatusWorking})
	if m.runStage != driver.StageFormat {
		t.Errorf("runStage = %q", m.runStage)
	}

	view := m.View()
	for _, want := range []string{"a.py", "white fmt", "(formatting)", "3/3 files", "1 cached", "1 failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q:\n%s", want, view)
		}
	}
}

func TestProgressViewCapsRows(t *testing.T) {
	files := make([]string, 3*maxRows)
	for i := range files {
		files[i] = fmt.Sprintf("pkg/mod_%02d.py", i)
	}
	m := NewProgressModel("white fmt", files, make(chan driver.Event)).(*progressModel)
	for _, f := range files[:maxRows+2] {
		m.applyEvent(driver.Event{File: f, Stage: driver.StageWrite, Status: driver.StatusDone})
	}
	m.applyEvent(driver.Event{File: files[len(files)-1], Stage: driver.StageFormat, Status: driver.StatusWorking})

	rows := m.visibleRows()
	if len(rows) != maxRows {
		t.Fatalf("rows = %d, want %d", len(rows), maxRows)
	}
	if rows[0] != len(files)-1 {
		t.Errorf("in-flight file should come first, got row %d", rows[0])
	}
	if rows[1] != maxRows+1 {
		t.Errorf("most recent finished file should follow, got row %d", rows[1])
	}
	if view := m.View(); !strings.Contains(view, fmt.Sprintf("%d more", len(files)-maxRows)) {
		t.Errorf("View does not report hidden rows:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate kept %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Errorf("zero width = %q", got)
	}
	got := truncate("a/very/long/path.py", 10)
	if !strings.HasSuffix(got, "...") || runewidth.StringWidth(got) > 10 {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdef", 3); runewidth.StringWidth(got) > 3 {
		t.Errorf("narrow truncate = %q", got)
	}
}

func TestEmptyProgressView(t *testing.T) {
	m := NewProgressModel("white fmt", nil, make(chan driver.Event))
	if got := m.View(); got != "" {
		t.Errorf("View = %q, want empty", got)
	}
}
