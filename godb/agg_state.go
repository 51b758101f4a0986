package godb

// AggState accumulates one aggregate column's value across a group of
// tuples. The course lab's CountAggState/SumAggState/etc. each carried
// their own Expr and an alias set once at construction; here the field to
// aggregate is an index fixed at construction (field-index predicates,
// not expression trees, are this engine's contract, see predicate.go),
// and Init resets the accumulator to start a new group.
type AggState interface {
	// Init (re)starts accumulation for the group named by alias.
	Init(alias string)
	// Copy returns a fresh accumulator with the same field and op but no
	// tuples added yet; used to spin up one accumulator per group.
	Copy() AggState
	// AddTuple folds one tuple's field value into the accumulator.
	AddTuple(t *Tuple)
	// Finalize returns the accumulator's single-field result tuple.
	Finalize() *Tuple
	// GetTupleDesc returns the descriptor Finalize's tuple will have.
	GetTupleDesc() *TupleDesc
}

// AggType names an aggregate function.
type AggType int

const (
	CountAgg AggType = iota
	SumAgg
	AvgAgg
	MinAgg
	MaxAgg
)

func (t AggType) String() string {
	switch t {
	case CountAgg:
		return "count"
	case SumAgg:
		return "sum"
	case AvgAgg:
		return "avg"
	case MinAgg:
		return "min"
	case MaxAgg:
		return "max"
	}
	return "?"
}

// IntAggState implements COUNT, SUM, AVG, MIN, and MAX over an IntType
// field. AVG rounds toward negative infinity (floor(sum/count)), per
// spec.md section 4.5, not Go's truncate-toward-zero integer division.
type IntAggState struct {
	op         AggType
	fieldIndex int
	alias      string

	count int32
	sum   int32
	min   int32
	max   int32
	set   bool
}

// NewIntAggState constructs an accumulator for op over the field at
// fieldIndex.
func NewIntAggState(op AggType, fieldIndex int) *IntAggState {
	return &IntAggState{op: op, fieldIndex: fieldIndex}
}

func (a *IntAggState) Init(alias string) {
	a.alias = alias
	a.count, a.sum, a.min, a.max = 0, 0, 0, 0
	a.set = false
}

func (a *IntAggState) Copy() AggState {
	return NewIntAggState(a.op, a.fieldIndex)
}

func (a *IntAggState) AddTuple(t *Tuple) {
	v, ok := t.Fields[a.fieldIndex].(IntField)
	if !ok {
		return
	}
	a.count++
	a.sum += v.Value
	if !a.set {
		a.min, a.max = v.Value, v.Value
		a.set = true
		return
	}
	if v.Value < a.min {
		a.min = v.Value
	}
	if v.Value > a.max {
		a.max = v.Value
	}
}

func (a *IntAggState) GetTupleDesc() *TupleDesc {
	return &TupleDesc{Fields: []FieldType{{Fname: a.alias, Ftype: IntType}}}
}

func (a *IntAggState) Finalize() *Tuple {
	var result int32
	switch a.op {
	case CountAgg:
		result = a.count
	case SumAgg:
		result = a.sum
	case AvgAgg:
		if a.count != 0 {
			result = floorDiv(a.sum, a.count)
		}
	case MinAgg:
		result = a.min
	case MaxAgg:
		result = a.max
	}
	return &Tuple{Desc: a.GetTupleDesc(), Fields: []DBValue{IntField{Value: result}}}
}

// floorDiv computes floor(sum/count), per spec.md section 4.5's AVG
// contract. Go's / truncates toward zero, which disagrees with floor
// whenever the division isn't exact and the operands have opposite
// signs (e.g. -3/2 is -1 in Go but floor(-3/2) is -2).
func floorDiv(sum, count int32) int32 {
	q := sum / count
	if (sum%count != 0) && ((sum < 0) != (count < 0)) {
		q--
	}
	return q
}

// StringAggState implements COUNT over a StringType field; SUM, AVG, MIN,
// and MAX have no meaning over strings and are rejected at construction.
type StringAggState struct {
	op         AggType
	fieldIndex int
	alias      string
	count      int32
}

// NewStringAggState constructs a COUNT accumulator over the field at
// fieldIndex. Any other op is an IllegalArgumentError, not a runtime
// failure, since the mismatch is knowable from the schema alone.
func NewStringAggState(op AggType, fieldIndex int) (*StringAggState, error) {
	if op != CountAgg {
		return nil, newIllegalArgErr("aggregate %s is not defined over a string field", op)
	}
	return &StringAggState{op: op, fieldIndex: fieldIndex}, nil
}

func (a *StringAggState) Init(alias string) {
	a.alias = alias
	a.count = 0
}

func (a *StringAggState) Copy() AggState {
	s, _ := NewStringAggState(a.op, a.fieldIndex)
	return s
}

func (a *StringAggState) AddTuple(t *Tuple) {
	if _, ok := t.Fields[a.fieldIndex].(StringField); ok {
		a.count++
	}
}

func (a *StringAggState) GetTupleDesc() *TupleDesc {
	return &TupleDesc{Fields: []FieldType{{Fname: a.alias, Ftype: IntType}}}
}

func (a *StringAggState) Finalize() *Tuple {
	return &Tuple{Desc: a.GetTupleDesc(), Fields: []DBValue{IntField{Value: a.count}}}
}
