package godb

import "testing"

func testDescIntString() *TupleDesc {
	return &TupleDesc{Fields: []FieldType{
		{Fname: "a", Ftype: IntType},
		{Fname: "b", Ftype: StringType},
	}}
}

// TestHeapPageRoundTrip is scenario S1: insert three tuples into a fresh
// page, serialize, reparse, and confirm the three tuples and their
// header bits survive unchanged.
func TestHeapPageRoundTrip(t *testing.T) {
	desc := testDescIntString()
	id := PageID{TableID: 1, PageNumber: 0}
	page := newHeapPage(id, desc, nil)

	tuples := []*Tuple{
		{Desc: desc, Fields: []DBValue{IntField{Value: 1}, StringField{Value: "a"}}},
		{Desc: desc, Fields: []DBValue{IntField{Value: 2}, StringField{Value: "bb"}}},
		{Desc: desc, Fields: []DBValue{IntField{Value: 3}, StringField{Value: ""}}},
	}
	for i, tup := range tuples {
		rid, err := page.insertTuple(tup)
		if err != nil {
			t.Fatalf("insertTuple %d: %v", i, err)
		}
		if rid.Slot != i {
			t.Fatalf("tuple %d landed in slot %d, want %d", i, rid.Slot, i)
		}
	}

	if page.header[0]&0x07 != 0x07 {
		t.Fatalf("header byte 0 = %08b, want bits 0..2 set", page.header[0])
	}

	data, err := page.toBuffer()
	if err != nil {
		t.Fatalf("toBuffer: %v", err)
	}
	if len(data) != PageSize {
		t.Fatalf("serialized page is %d bytes, want %d", len(data), PageSize)
	}

	reparsed, err := newHeapPageFromBytes(id, desc, nil, data)
	if err != nil {
		t.Fatalf("newHeapPageFromBytes: %v", err)
	}
	for i, want := range tuples {
		got := reparsed.tuples[i]
		if got == nil {
			t.Fatalf("slot %d empty after round trip", i)
		}
		if !got.Equals(want) {
			t.Errorf("slot %d = %v, want %v", i, got.PrettyPrintString(), want.PrettyPrintString())
		}
		if got.Rid.Slot != i || got.Rid.PID != id {
			t.Errorf("slot %d record id = %v, want slot %d of %v", i, got.Rid, i, id)
		}
	}
}

func TestHeapPageFullReturnsErrPageFull(t *testing.T) {
	desc := &TupleDesc{Fields: []FieldType{{Fname: "a", Ftype: IntType}}}
	id := PageID{TableID: 1, PageNumber: 0}
	page := newHeapPage(id, desc, nil)

	n := len(page.tuples)
	for i := 0; i < n; i++ {
		if _, err := page.insertTuple(&Tuple{Desc: desc, Fields: []DBValue{IntField{Value: int32(i)}}}); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	if _, err := page.insertTuple(&Tuple{Desc: desc, Fields: []DBValue{IntField{Value: 999}}}); err != ErrPageFull {
		t.Fatalf("insert into full page: got %v, want ErrPageFull", err)
	}
}

func TestHeapPageDeleteFreesSlot(t *testing.T) {
	desc := testDescIntString()
	id := PageID{TableID: 1, PageNumber: 0}
	page := newHeapPage(id, desc, nil)

	rid, err := page.insertTuple(&Tuple{Desc: desc, Fields: []DBValue{IntField{Value: 1}, StringField{Value: "x"}}})
	if err != nil {
		t.Fatalf("insertTuple: %v", err)
	}
	if page.numEmptySlots() != len(page.tuples)-1 {
		t.Fatalf("numEmptySlots after insert = %d", page.numEmptySlots())
	}
	if err := page.deleteTuple(rid); err != nil {
		t.Fatalf("deleteTuple: %v", err)
	}
	if page.numEmptySlots() != len(page.tuples) {
		t.Fatalf("numEmptySlots after delete = %d, want %d", page.numEmptySlots(), len(page.tuples))
	}
	if err := page.deleteTuple(rid); err != ErrTupleNotFound {
		t.Fatalf("double delete: got %v, want ErrTupleNotFound", err)
	}
}

func TestFFS(t *testing.T) {
	cases := map[byte]int{
		0x00: -1,
		0x01: 0,
		0x02: 1,
		0x08: 3,
		0xF0: 4,
		0xFF: 0,
	}
	for b, want := range cases {
		if got := ffs(b); got != want {
			t.Errorf("ffs(%08b) = %d, want %d", b, got, want)
		}
	}
}
