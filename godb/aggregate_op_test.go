package godb

import "testing"

// TestAggregateOpGroupedSum is scenario S6: SUM grouped by the string
// column aggregates only the rows sharing each key.
func TestAggregateOpGroupedSum(t *testing.T) {
	hf := populatedHeapFile(t, [][2]any{
		{int32(1), "a"}, {int32(2), "a"}, {int32(3), "b"}, {int32(10), "b"},
	})
	scan := NewSeqScan(hf, "")
	agg, err := NewAggregateOp(scan, 1, []AggSpec{{FieldIndex: 0, Op: SumAgg, Alias: "total"}})
	if err != nil {
		t.Fatalf("NewAggregateOp: %v", err)
	}

	tid := NewTID()
	if err := agg.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer agg.Close()

	got, err := drainAll(agg)
	if err != nil {
		t.Fatalf("drainAll: %v", err)
	}
	want := []*Tuple{
		{Desc: agg.Descriptor(), Fields: []DBValue{StringField{Value: "a"}, IntField{Value: 3}}},
		{Desc: agg.Descriptor(), Fields: []DBValue{StringField{Value: "b"}, IntField{Value: 13}}},
	}
	assertTupleMultisetEqual(t, got, want)
}

func TestAggregateOpNoGroupingCountOnEmptyInput(t *testing.T) {
	hf := populatedHeapFile(t, nil)
	scan := NewSeqScan(hf, "")
	agg, err := NewAggregateOp(scan, NoGrouping, []AggSpec{{FieldIndex: 0, Op: CountAgg, Alias: "n"}})
	if err != nil {
		t.Fatalf("NewAggregateOp: %v", err)
	}

	tid := NewTID()
	if err := agg.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer agg.Close()

	got, err := drainAll(agg)
	if err != nil {
		t.Fatalf("drainAll: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d result tuples for an ungrouped aggregate, want 1", len(got))
	}
	if got[0].Fields[0].(IntField).Value != 0 {
		t.Errorf("count over empty input = %d, want 0", got[0].Fields[0].(IntField).Value)
	}
}

// TestAggregateOpRewindIsIdempotent is testable property 8: rewinding and
// re-draining an aggregate produces the same results without recomputing
// against the (already exhausted) child.
func TestAggregateOpRewindIsIdempotent(t *testing.T) {
	hf := populatedHeapFile(t, [][2]any{{int32(5), "x"}, {int32(7), "x"}})
	scan := NewSeqScan(hf, "")
	agg, err := NewAggregateOp(scan, NoGrouping, []AggSpec{{FieldIndex: 0, Op: AvgAgg, Alias: "avg"}})
	if err != nil {
		t.Fatalf("NewAggregateOp: %v", err)
	}

	tid := NewTID()
	if err := agg.Open(tid); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer agg.Close()

	first, err := drainAll(agg)
	if err != nil {
		t.Fatalf("drainAll: %v", err)
	}
	if err := agg.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	second, err := drainAll(agg)
	if err != nil {
		t.Fatalf("drainAll after rewind: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected exactly one result tuple both passes, got %d then %d", len(first), len(second))
	}
	if first[0].Fields[0].(IntField).Value != second[0].Fields[0].(IntField).Value {
		t.Errorf("rewind changed the aggregate result: %v then %v", first[0].PrettyPrintString(), second[0].PrettyPrintString())
	}
	if first[0].Fields[0].(IntField).Value != 6 {
		t.Errorf("avg(5,7) = %d, want 6 (floor(12/2))", first[0].Fields[0].(IntField).Value)
	}
}
