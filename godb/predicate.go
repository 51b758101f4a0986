package godb

// Predicate and JoinPredicate name comparisons by field index rather than
// by the general expression tree the course lab's Filter/Join use (Expr,
// FieldExpr, ConstExpr): the SQL front end that would construct arbitrary
// expressions is out of scope (spec.md section 1), so a predicate only
// ever needs to name a column and compare it to a constant or to another
// operator's column, per spec.md section 6.

// Predicate compares the field at FieldIndex of a tuple to a constant
// Value using Op.
type Predicate struct {
	FieldIndex int
	Op         BoolOp
	Value      DBValue
}

// NewPredicate validates fieldIndex against desc and builds a Predicate.
func NewPredicate(desc *TupleDesc, fieldIndex int, op BoolOp, value DBValue) (*Predicate, error) {
	if fieldIndex < 0 || fieldIndex >= len(desc.Fields) {
		return nil, newIllegalArgErr("predicate field index %d out of range for %d fields", fieldIndex, len(desc.Fields))
	}
	return &Predicate{FieldIndex: fieldIndex, Op: op, Value: value}, nil
}

// Filter reports whether t satisfies the predicate.
func (p *Predicate) Filter(t *Tuple) bool {
	field := t.Fields[p.FieldIndex]
	return field.EvalPred(p.Value, p.Op)
}

// JoinPredicate compares field LeftIndex of a left-side tuple to field
// RightIndex of a right-side tuple using Op.
type JoinPredicate struct {
	LeftIndex  int
	Op         BoolOp
	RightIndex int
}

// NewJoinPredicate validates both indices against their descriptors.
func NewJoinPredicate(leftDesc *TupleDesc, leftIndex int, op BoolOp, rightDesc *TupleDesc, rightIndex int) (*JoinPredicate, error) {
	if leftIndex < 0 || leftIndex >= len(leftDesc.Fields) {
		return nil, newIllegalArgErr("join predicate left index %d out of range for %d fields", leftIndex, len(leftDesc.Fields))
	}
	if rightIndex < 0 || rightIndex >= len(rightDesc.Fields) {
		return nil, newIllegalArgErr("join predicate right index %d out of range for %d fields", rightIndex, len(rightDesc.Fields))
	}
	return &JoinPredicate{LeftIndex: leftIndex, Op: op, RightIndex: rightIndex}, nil
}

// Filter reports whether the left and right tuples satisfy the join
// condition.
func (jp *JoinPredicate) Filter(left, right *Tuple) bool {
	lv := left.Fields[jp.LeftIndex]
	rv := right.Fields[jp.RightIndex]
	return lv.EvalPred(rv, jp.Op)
}
