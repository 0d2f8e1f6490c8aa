// control/trace_test.go
// Author: momentics <momentics@gmail.com>

package control

import "testing"

func TestTraceRecordsInOrder(t *testing.T) {
	tr := NewTrace(8)
	tr.Record(Event{Kind: "reserve", Size: 100})
	tr.Record(Event{Kind: "grow", Size: 200})
	tr.Record(Event{Kind: "release", Size: 100})

	events := tr.Snapshot()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	kinds := []string{"reserve", "grow", "release"}
	for i, want := range kinds {
		if events[i].Kind != want {
			t.Errorf("event %d kind = %q, want %q", i, events[i].Kind, want)
		}
	}
	if events[0].Time.IsZero() {
		t.Error("Record must stamp missing times")
	}
}

func TestTraceEvictsOldestPastCapacity(t *testing.T) {
	tr := NewTrace(3)
	for i := 0; i < 10; i++ {
		tr.Record(Event{Kind: "reserve", Size: int64(i)})
	}
	events := tr.Snapshot()
	if len(events) != 3 {
		t.Fatalf("retained %d events, want 3", len(events))
	}
	for i, want := range []int64{7, 8, 9} {
		if events[i].Size != want {
			t.Errorf("event %d size = %d, want %d", i, events[i].Size, want)
		}
	}
	if tr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tr.Len())
	}
}

func TestTraceDefaultCapacity(t *testing.T) {
	tr := NewTrace(0)
	for i := 0; i < defaultTraceCapacity+10; i++ {
		tr.Record(Event{Kind: "reserve"})
	}
	if tr.Len() != defaultTraceCapacity {
		t.Errorf("Len() = %d, want %d", tr.Len(), defaultTraceCapacity)
	}
}

func TestNilTraceIsSafe(t *testing.T) {
	var tr *Trace
	tr.Record(Event{Kind: "reserve"})
	if tr.Snapshot() != nil {
		t.Error("nil trace Snapshot() should be nil")
	}
	if tr.Len() != 0 {
		t.Error("nil trace Len() should be 0")
	}
}
