package godb

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestHeapFile(t *testing.T, desc *TupleDesc, capacity int) (*HeapFile, func()) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "table.dat")
	bp, err := NewBufferPool(capacity)
	if err != nil {
		t.Fatalf("NewBufferPool: %v", err)
	}
	hf, err := NewHeapFile(path, desc, bp)
	if err != nil {
		t.Fatalf("NewHeapFile: %v", err)
	}
	return hf, func() { os.RemoveAll(dir) }
}

// TestHeapFileGrowsAcrossPages is scenario S2: inserting enough tuples to
// overflow a page's capacity grows NumPages, and every inserted tuple is
// still found by a subsequent full scan.
func TestHeapFileGrowsAcrossPages(t *testing.T) {
	desc := testDescIntString()
	hf, cleanup := newTestHeapFile(t, desc, 10)
	defer cleanup()

	tid := NewTID()
	slotsPerPage := numSlotsForTupleSize(desc.Size())
	want := slotsPerPage*2 + 3
	for i := 0; i < want; i++ {
		tup := &Tuple{Desc: desc, Fields: []DBValue{IntField{Value: int32(i)}, StringField{Value: "x"}}}
		if err := hf.insertTuple(tup, tid); err != nil {
			t.Fatalf("insertTuple %d: %v", i, err)
		}
	}
	if err := hf.bufPool.FlushPages(tid); err != nil {
		t.Fatalf("FlushPages: %v", err)
	}

	if hf.NumPages() != 3 {
		t.Fatalf("NumPages() = %d, want 3", hf.NumPages())
	}

	iter, err := hf.Iterator(tid)
	if err != nil {
		t.Fatalf("Iterator: %v", err)
	}
	var got []*Tuple
	for {
		tup, err := iter()
		if err != nil {
			t.Fatalf("iterator: %v", err)
		}
		if tup == nil {
			break
		}
		got = append(got, tup)
	}
	wantTuples := make([]*Tuple, want)
	for i := 0; i < want; i++ {
		wantTuples[i] = &Tuple{Desc: desc, Fields: []DBValue{IntField{Value: int32(i)}, StringField{Value: "x"}}}
	}
	assertTupleMultisetEqual(t, got, wantTuples)
}

func TestHeapFileDeleteThenInsertReusesSlot(t *testing.T) {
	desc := testDescIntString()
	hf, cleanup := newTestHeapFile(t, desc, 10)
	defer cleanup()

	tid := NewTID()
	tup := &Tuple{Desc: desc, Fields: []DBValue{IntField{Value: 1}, StringField{Value: "a"}}}
	if err := hf.insertTuple(tup, tid); err != nil {
		t.Fatalf("insertTuple: %v", err)
	}
	before := hf.NumPages()

	if err := hf.deleteTuple(tup, tid); err != nil {
		t.Fatalf("deleteTuple: %v", err)
	}

	again := &Tuple{Desc: desc, Fields: []DBValue{IntField{Value: 2}, StringField{Value: "b"}}}
	if err := hf.insertTuple(again, tid); err != nil {
		t.Fatalf("insertTuple after delete: %v", err)
	}
	if hf.NumPages() != before {
		t.Fatalf("NumPages grew to %d after reusing a freed slot, want %d", hf.NumPages(), before)
	}
}
