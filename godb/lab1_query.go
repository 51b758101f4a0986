package godb

import "os"

// SumIntField loads csvFile into a scratch HeapFile backed by
// backingFile (created fresh; an existing file at that path is
// overwritten) and returns the sum of the integer column named sumField.
// This is the first exercise a learner runs end to end: load, scan,
// aggregate, matching the course lab's computeFieldSum in spirit but
// rebuilt on AggregateOp (NO_GROUPING, SumAgg) instead of a hand-rolled
// accumulation loop, now that an aggregate operator exists.
func SumIntField(bp *BufferPool, backingFile string, csvFile string, desc *TupleDesc, sumField string) (int32, error) {
	os.Remove(backingFile)
	hf, err := NewHeapFile(backingFile, desc, bp)
	if err != nil {
		return 0, err
	}

	idx, err := desc.FieldNameIndex(sumField)
	if err != nil {
		return 0, err
	}
	if desc.Fields[idx].Ftype != IntType {
		return 0, newIllegalArgErr("field %q is not an int field", sumField)
	}

	file, err := os.Open(csvFile)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	if err := hf.LoadFromCSV(file, true, ",", false); err != nil {
		return 0, err
	}

	tid := NewTID()
	scan := NewSeqScan(hf, "")
	agg, err := NewAggregateOp(scan, NoGrouping, []AggSpec{{FieldIndex: idx, Op: SumAgg, Alias: "sum"}})
	if err != nil {
		return 0, err
	}
	if err := agg.Open(tid); err != nil {
		return 0, err
	}
	defer agg.Close()

	has, err := agg.HasNext()
	if err != nil {
		return 0, err
	}
	if !has {
		return 0, nil
	}
	t, err := agg.Next()
	if err != nil {
		return 0, err
	}
	return t.Fields[0].(IntField).Value, nil
}
