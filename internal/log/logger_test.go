package log

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestMemoryLoggerSequence(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewRoundStartEvent(1, 4))
	l.Log(NewLockEvent(1, true))
	l.Log(NewRoundStartEvent(2, 3))

	events := l.Events()
	for i, e := range events {
		if e.Seq != i+1 {
			t.Errorf("event %d seq = %d", i, e.Seq)
		}
	}
	if got := l.Since(1); len(got) != 2 || got[0].Type != EventLock {
		t.Errorf("Since(1) = %+v", got)
	}
	if got := l.EventsOfType(EventRoundStart); len(got) != 2 {
		t.Errorf("round starts = %d, want 2", len(got))
	}
	if last := l.LastEvent(); last.Round != 2 || last.Seq != 3 {
		t.Errorf("last = %+v", last)
	}

	events[0].Details = "changed"
	if l.Events()[0].Details == "changed" {
		t.Error("Events returned the internal slice")
	}
}

func TestMemoryLoggerConcurrent(t *testing.T) {
	l := NewMemoryLogger()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				l.Log(NewSkipEvent(1, i, "p"))
			}
		}()
	}
	wg.Wait()
	if n := len(l.Events()); n != 400 {
		t.Fatalf("events = %d, want 400", n)
	}
	if l.LastEvent().Seq != 400 {
		t.Errorf("last seq = %d", l.LastEvent().Seq)
	}
}

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewLockEvent(3, false))
	l.Log(NewTournamentOverEvent(3, 1, "Bob"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "R3  Shop    | Shop unlocked" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if len(l.Events()) != 2 {
		t.Error("text logger did not keep events")
	}
	if got := FormatAll(l.Events()); got != buf.String() {
		t.Errorf("FormatAll = %q, want %q", got, buf.String())
	}
}

func TestEventTypeString(t *testing.T) {
	if EventFightResult.String() != "FightResult" || EventType(99).String() != "Unknown" {
		t.Error("unexpected event type names")
	}
}
