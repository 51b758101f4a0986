package godb

// TableStats is a supplemental optimizer-facing component (spec.md
// mentions the Histogram as the thing the optimizer consults but leaves
// the cost model itself unspecified, since the optimizer and SQL
// front-end are out of scope). Grounded on tikkisean-csc560-lab2's
// table_stats.go: one pass over the table builds a min/max per int
// column, then a second pass fills in histograms.
import (
	"fmt"
	"log"
	"math"
)

// CostPerPage is the assumed cost, in arbitrary units, of reading one
// page from disk; used only for EstimateScanCost's back-of-envelope
// estimate.
const CostPerPage = 1000

// NumHistBins is the bucket count every int histogram built by
// ComputeTableStats uses.
const NumHistBins = 100

// TableStats holds per-column histograms plus the row/page counts needed
// to estimate scan cost and result cardinality.
type TableStats struct {
	numPages int
	numTups  int
	intHists map[string]*IntHistogram
	strHists map[string]*StringHistogram
	desc     *TupleDesc
}

// ComputeTableStats scans file twice under a private transaction: once to
// find each int column's range, once to populate histograms built over
// those ranges.
func ComputeTableStats(bp *BufferPool, file DBFile) (*TableStats, error) {
	tid := NewTID()
	desc := file.Descriptor()

	mins := make([]int32, len(desc.Fields))
	maxs := make([]int32, len(desc.Fields))
	for i := range mins {
		mins[i] = math.MaxInt32
		maxs[i] = math.MinInt32
	}

	if err := scanTuples(file, tid, func(t *Tuple) {
		for i, f := range desc.Fields {
			if f.Ftype != IntType {
				continue
			}
			v := t.Fields[i].(IntField).Value
			if v < mins[i] {
				mins[i] = v
			}
			if v > maxs[i] {
				maxs[i] = v
			}
		}
	}); err != nil {
		return nil, err
	}
	for i, f := range desc.Fields {
		if f.Ftype == IntType && mins[i] > maxs[i] {
			mins[i], maxs[i] = 0, 0
		}
	}

	intHists := make(map[string]*IntHistogram)
	strHists := make(map[string]*StringHistogram)
	for i, f := range desc.Fields {
		switch f.Ftype {
		case IntType:
			intHists[f.Fname] = NewIntHistogram(NumHistBins, mins[i], maxs[i])
		case StringType:
			strHists[f.Fname] = NewStringHistogram()
		}
	}

	numTups := 0
	if err := scanTuples(file, tid, func(t *Tuple) {
		numTups++
		for i, f := range desc.Fields {
			switch f.Ftype {
			case IntType:
				intHists[f.Fname].Add(t.Fields[i].(IntField).Value)
			case StringType:
				strHists[f.Fname].Add(t.Fields[i].(StringField).Value)
			}
		}
	}); err != nil {
		return nil, err
	}

	return &TableStats{
		numPages: file.NumPages(),
		numTups:  numTups,
		intHists: intHists,
		strHists: strHists,
		desc:     desc,
	}, nil
}

func scanTuples(file DBFile, tid TransactionID, visit func(*Tuple)) error {
	iter, err := file.Iterator(tid)
	if err != nil {
		return err
	}
	for {
		t, err := iter()
		if err != nil {
			return err
		}
		if t == nil {
			return nil
		}
		visit(t)
	}
}

// EstimateScanCost estimates the cost of a full sequential scan.
func (ts *TableStats) EstimateScanCost() float64 {
	return float64(ts.numPages * CostPerPage)
}

// EstimateCardinality estimates the number of rows a predicate of the
// given selectivity would return.
func (ts *TableStats) EstimateCardinality(selectivity float64) int {
	return int(float64(ts.numTups) * selectivity)
}

// EstimateSelectivity estimates the selectivity of `field op value`,
// using the field's histogram.
func (ts *TableStats) EstimateSelectivity(field string, op BoolOp, value DBValue) (float64, error) {
	if h, ok := ts.intHists[field]; ok {
		v, ok := value.(IntField)
		if !ok {
			return 1.0, fmt.Errorf("field %q is int, but value %v is not an IntField", field, value)
		}
		return h.EstimateSelectivity(op, v.Value), nil
	}
	if h, ok := ts.strHists[field]; ok {
		v, ok := value.(StringField)
		if !ok {
			return 1.0, fmt.Errorf("field %q is string, but value %v is not a StringField", field, value)
		}
		return h.EstimateSelectivity(op, v.Value), nil
	}
	log.Printf("no histogram for field %q, assuming selectivity 1.0", field)
	return 1.0, nil
}
