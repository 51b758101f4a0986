package godb

import "testing"

func populatedHeapFile(t *testing.T, rows [][2]any) *HeapFile {
	t.Helper()
	desc := testDescIntString()
	hf, cleanup := newTestHeapFile(t, desc, 10)
	t.Cleanup(cleanup)

	tid := NewTID()
	for _, row := range rows {
		tup := &Tuple{Desc: desc, Fields: []DBValue{
			IntField{Value: row[0].(int32)},
			StringField{Value: row[1].(string)},
		}}
		if err := hf.insertTuple(tup, tid); err != nil {
			t.Fatalf("insertTuple: %v", err)
		}
	}
	if err := hf.bufPool.FlushPages(tid); err != nil {
		t.Fatalf("FlushPages: %v", err)
	}
	return hf
}

// TestFilterPassesOnlyMatching is scenario S4: a scan wrapped in a filter
// yields exactly the rows satisfying the predicate.
func TestFilterPassesOnlyMatching(t *testing.T) {
	hf := populatedHeapFile(t, [][2]any{
		{int32(1), "a"}, {int32(2), "b"}, {int32(3), "c"}, {int32(4), "d"},
	})
	scan := NewSeqScan(hf, "")
	pred, err := NewPredicate(scan.Descriptor(), 0, OpGreaterThan, IntField{Value: 2})
	if err != nil {
		t.Fatalf("NewPredicate: %v", err)
	}
	filter, err := NewFilter(pred, scan)
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}

	tid := NewTID()
	if err := filter.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer filter.Close()

	got, err := drainAll(filter)
	if err != nil {
		t.Fatalf("drainAll: %v", err)
	}
	want := []*Tuple{
		{Desc: scan.Descriptor(), Fields: []DBValue{IntField{Value: 3}, StringField{Value: "c"}}},
		{Desc: scan.Descriptor(), Fields: []DBValue{IntField{Value: 4}, StringField{Value: "d"}}},
	}
	assertTupleMultisetEqual(t, got, want)
}

func TestFilterRewindReplaysFromStart(t *testing.T) {
	hf := populatedHeapFile(t, [][2]any{{int32(1), "a"}, {int32(2), "b"}})
	scan := NewSeqScan(hf, "")
	pred, err := NewPredicate(scan.Descriptor(), 0, OpGreaterThan, IntField{Value: 0})
	if err != nil {
		t.Fatalf("NewPredicate: %v", err)
	}
	filter, err := NewFilter(pred, scan)
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}

	tid := NewTID()
	if err := filter.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer filter.Close()

	first, err := drainAll(filter)
	if err != nil {
		t.Fatalf("drainAll: %v", err)
	}
	if err := filter.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	second, err := drainAll(filter)
	if err != nil {
		t.Fatalf("drainAll after rewind: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("rewind produced %d tuples, want %d (matching first pass)", len(second), len(first))
	}
}
