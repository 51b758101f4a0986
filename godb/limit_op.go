package godb

// LimitOp passes through at most Limit tuples from its child, then
// reports end of input. Adapted from the course lab's LimitOp, with the
// limit now a plain int (set at construction time) instead of an Expr
// evaluated against nil: the lab's version exists to support a SQL LIMIT
// clause with a parameterized count, which has no counterpart once the
// SQL front end is out of scope.
type LimitOp struct {
	baseOp
	limit int
	count int
	child Operator
}

// NewLimitOp constructs an operator returning at most limit tuples of
// child.
func NewLimitOp(limit int, child Operator) *LimitOp {
	return &LimitOp{limit: limit, child: child}
}

func (l *LimitOp) Descriptor() *TupleDesc {
	return l.child.Descriptor()
}

func (l *LimitOp) Children() []Operator {
	return []Operator{l.child}
}

func (l *LimitOp) SetChildren(children []Operator) error {
	if len(children) != 1 {
		return newDbErr("LimitOp takes exactly one child")
	}
	l.child = children[0]
	return nil
}

func (l *LimitOp) Open(tid TransactionID) error {
	if err := l.child.Open(tid); err != nil {
		return err
	}
	l.count = 0
	l.initBase(l, tid)
	return nil
}

func (l *LimitOp) Rewind() error {
	if err := l.child.Rewind(); err != nil {
		return err
	}
	l.count = 0
	l.resetLookahead()
	return nil
}

func (l *LimitOp) Close() error {
	l.closeBase()
	return l.child.Close()
}

func (l *LimitOp) fetchNext() (*Tuple, error) {
	if l.count >= l.limit {
		return nil, nil
	}
	has, err := l.child.HasNext()
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, nil
	}
	t, err := l.child.Next()
	if err != nil {
		return nil, err
	}
	l.count++
	return t, nil
}
