package godb

import (
	"path/filepath"
	"testing"
)

// TestBufferPoolEvictsLeastRecentlyUsed is scenario S3: with a pool sized
// to hold only two pages, requesting pages 0, 1, 0 and then 2 should save
// page 0 from eviction, leaving page 1 as the one dropped.
func TestBufferPoolEvictsLeastRecentlyUsed(t *testing.T) {
	desc := testDescIntString()
	dir := t.TempDir()
	bp, err := NewBufferPool(2)
	if err != nil {
		t.Fatalf("NewBufferPool: %v", err)
	}
	hf, err := NewHeapFile(filepath.Join(dir, "t.dat"), desc, bp)
	if err != nil {
		t.Fatalf("NewHeapFile: %v", err)
	}

	tid := NewTID()
	slotsPerPage := numSlotsForTupleSize(desc.Size())
	fill := func(n int) {
		for i := 0; i < n; i++ {
			tup := &Tuple{Desc: desc, Fields: []DBValue{IntField{Value: int32(i)}, StringField{Value: "x"}}}
			if err := hf.insertTuple(tup, tid); err != nil {
				t.Fatalf("insertTuple: %v", err)
			}
		}
	}
	fill(slotsPerPage*2 + 1) // fills pages 0 and 1 and starts page 2
	if err := bp.FlushPages(tid); err != nil {
		t.Fatalf("FlushPages: %v", err)
	}

	for _, pageNo := range []int{0, 1} {
		if _, err := bp.GetPage(hf, pageNo, tid, ReadPerm); err != nil {
			t.Fatalf("GetPage(%d): %v", pageNo, err)
		}
	}
	if _, err := bp.GetPage(hf, 0, tid, ReadPerm); err != nil {
		t.Fatalf("GetPage(0): %v", err)
	}

	// Page 2 is not resident at this point, so bringing it in must evict
	// something.
	if _, err := bp.GetPage(hf, 2, tid, ReadPerm); err != nil {
		t.Fatalf("GetPage(2): %v", err)
	}

	if len(bp.pages) != 2 {
		t.Fatalf("resident pages = %d, want 2", len(bp.pages))
	}
	if _, ok := bp.pages[hf.pageKey(0)]; !ok {
		t.Errorf("page 0 was evicted, want page 1 evicted instead (it was touched more recently)")
	}
	if _, ok := bp.pages[hf.pageKey(1)]; ok {
		t.Errorf("page 1 still resident, want it evicted as least recently used")
	}
}

func TestBufferPoolNoStealSkipsDirtyPages(t *testing.T) {
	desc := testDescIntString()
	dir := t.TempDir()
	bp, err := NewBufferPool(1)
	if err != nil {
		t.Fatalf("NewBufferPool: %v", err)
	}
	bp.SetNoStealPolicy(true)
	hf, err := NewHeapFile(filepath.Join(dir, "t.dat"), desc, bp)
	if err != nil {
		t.Fatalf("NewHeapFile: %v", err)
	}

	tid := NewTID()
	slotsPerPage := numSlotsForTupleSize(desc.Size())
	for i := 0; i < slotsPerPage; i++ {
		tup := &Tuple{Desc: desc, Fields: []DBValue{IntField{Value: int32(i)}, StringField{Value: "x"}}}
		if err := hf.insertTuple(tup, tid); err != nil {
			t.Fatalf("insertTuple: %v", err)
		}
	}
	// Page 0 is now dirty and resident, and capacity is 1: asking for a
	// second page must fail rather than steal it.
	overflow := &Tuple{Desc: desc, Fields: []DBValue{IntField{Value: 999}, StringField{Value: "y"}}}
	err = hf.insertTuple(overflow, tid)
	if err != ErrBufferPoolFull {
		t.Fatalf("insert forcing eviction under no-steal: got %v, want ErrBufferPoolFull", err)
	}
}

func TestBufferPoolInsertTupleRejectsTableIdMismatch(t *testing.T) {
	desc := testDescIntString()
	dir := t.TempDir()
	bp, err := NewBufferPool(10)
	if err != nil {
		t.Fatalf("NewBufferPool: %v", err)
	}
	hf, err := NewHeapFile(filepath.Join(dir, "t.dat"), desc, bp)
	if err != nil {
		t.Fatalf("NewHeapFile: %v", err)
	}
	tid := NewTID()
	tup := &Tuple{Desc: desc, Fields: []DBValue{IntField{Value: 1}, StringField{Value: "a"}}}
	err = bp.InsertTuple(tid, hf.TableID()+1, hf, tup)
	gerr, ok := err.(GoDBError)
	if !ok || gerr.Code() != DbError {
		t.Fatalf("InsertTuple with wrong tableId: got %v, want a DbError", err)
	}
}

// TestBufferPoolCancelTransactionAbortsPendingPageRequests is the
// caller-cancellation case of spec.md section 5: a cancelled transaction
// must not be able to fetch more pages, and must fail with a
// TxnAbortError rather than silently succeeding or returning a DbError.
func TestBufferPoolCancelTransactionAbortsPendingPageRequests(t *testing.T) {
	desc := testDescIntString()
	dir := t.TempDir()
	bp, err := NewBufferPool(10)
	if err != nil {
		t.Fatalf("NewBufferPool: %v", err)
	}
	hf, err := NewHeapFile(filepath.Join(dir, "t.dat"), desc, bp)
	if err != nil {
		t.Fatalf("NewHeapFile: %v", err)
	}
	tid := NewTID()
	tup := &Tuple{Desc: desc, Fields: []DBValue{IntField{Value: 1}, StringField{Value: "a"}}}
	if err := hf.insertTuple(tup, tid); err != nil {
		t.Fatalf("insertTuple: %v", err)
	}
	if err := bp.FlushPages(tid); err != nil {
		t.Fatalf("FlushPages: %v", err)
	}

	bp.CancelTransaction(tid)
	_, err = bp.GetPage(hf, 0, tid, ReadPerm)
	gerr, ok := err.(GoDBError)
	if !ok || gerr.Code() != TxnAbortError {
		t.Fatalf("GetPage after CancelTransaction: got %v, want a TxnAbortError", err)
	}

	if err := bp.TransactionComplete(tid, false); err != nil {
		t.Fatalf("TransactionComplete: %v", err)
	}
	other := NewTID()
	if _, err := bp.GetPage(hf, 0, other, ReadPerm); err != nil {
		t.Fatalf("GetPage with a fresh transaction: %v", err)
	}
}
