package buildlog

import (
	"testing"
	"time"
)

func TestRecordAndSession(t *testing.T) {
	l, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	entries := []Entry{
		{Session: "s1", Seq: 1, Added: 2, Valid: 2, Nodes: 4, Recompiled: true, Elapsed: 1500 * time.Microsecond},
		{Session: "s1", Seq: 2, Added: 0, Valid: 2, Nodes: 4, Recompiled: false, Elapsed: 10 * time.Microsecond},
		{Session: "s2", Seq: 1, Added: 1, Valid: 1, Invalid: 1, Nodes: 2, Recompiled: true},
	}
	for _, e := range entries {
		if err := l.Record(e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := l.Session("s1")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Seq != 1 || got[1].Seq != 2 {
		t.Errorf("entries out of sequence order: %+v", got)
	}
	if !got[0].Recompiled || got[1].Recompiled {
		t.Errorf("recompiled flags wrong: %+v", got)
	}
	if got[0].Elapsed != 1500*time.Microsecond {
		t.Errorf("elapsed not round-tripped: %v", got[0].Elapsed)
	}
	if got[0].ID == 0 {
		t.Error("expected autoincrement id")
	}
}

func TestSession_Empty(t *testing.T) {
	l, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	got, err := l.Session("missing")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no entries, got %d", len(got))
	}
}
