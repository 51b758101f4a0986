package godb

// Multiset tuple comparisons shared across the operator test suite. The
// teacher's own test tooling reaches for github.com/d4l3k/messagediff to
// diff structs rather than hand-rolling a reflect.DeepEqual walk, so the
// S4/S5/S6-style "output multiset" scenarios in spec.md use it here too:
// it turns an order-independent mismatch into a readable struct diff
// instead of a bare "got N tuples, want M".

import (
	"fmt"
	"sort"
	"testing"

	"github.com/d4l3k/messagediff"
)

// tupleFieldValues extracts a tuple's field values as plain Go values so
// that messagediff.PrettyDiff compares the data a test cares about,
// rather than tripping over RecordID/TupleDesc pointer identity baked
// into the Tuple struct itself.
func tupleFieldValues(t *Tuple) []any {
	vals := make([]any, len(t.Fields))
	for i, f := range t.Fields {
		switch v := f.(type) {
		case IntField:
			vals[i] = v.Value
		case StringField:
			vals[i] = v.Value
		}
	}
	return vals
}

// sortRows orders rows by their %v rendering so that two multisets
// containing the same rows in different orders compare equal.
func sortRows(rows [][]any) {
	sort.Slice(rows, func(i, j int) bool {
		return fmt.Sprint(rows[i]) < fmt.Sprint(rows[j])
	})
}

// assertTupleMultisetEqual compares got and want as multisets of tuples,
// ignoring order, via messagediff.PrettyDiff.
func assertTupleMultisetEqual(t *testing.T, got, want []*Tuple) {
	t.Helper()

	gotRows := make([][]any, len(got))
	for i, tup := range got {
		gotRows[i] = tupleFieldValues(tup)
	}
	wantRows := make([][]any, len(want))
	for i, tup := range want {
		wantRows[i] = tupleFieldValues(tup)
	}
	sortRows(gotRows)
	sortRows(wantRows)

	if diff, equal := messagediff.PrettyDiff(wantRows, gotRows); !equal {
		t.Errorf("tuple multiset mismatch (-want +got):\n%s", diff)
	}
}
