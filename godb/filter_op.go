package godb

// Filter is a pipelined operator that passes through only tuples
// satisfying a Predicate (spec.md section 6), pulling from a single
// child. It keeps the course lab's structure (wrap a child Operator, test
// each tuple with EvalPred) but the predicate is now a field-index
// comparison rather than a pair of Exprs, since the expression tree
// belongs to the out-of-scope SQL front end.
type Filter struct {
	baseOp
	pred  *Predicate
	child Operator
}

// NewFilter constructs a filter over child using pred.
func NewFilter(pred *Predicate, child Operator) (*Filter, error) {
	return &Filter{pred: pred, child: child}, nil
}

func (f *Filter) Descriptor() *TupleDesc {
	return f.child.Descriptor()
}

func (f *Filter) Children() []Operator {
	return []Operator{f.child}
}

func (f *Filter) SetChildren(children []Operator) error {
	if len(children) != 1 {
		return newDbErr("Filter takes exactly one child")
	}
	f.child = children[0]
	return nil
}

func (f *Filter) Open(tid TransactionID) error {
	if err := f.child.Open(tid); err != nil {
		return err
	}
	f.initBase(f, tid)
	return nil
}

func (f *Filter) Rewind() error {
	if err := f.child.Rewind(); err != nil {
		return err
	}
	f.resetLookahead()
	return nil
}

func (f *Filter) Close() error {
	f.closeBase()
	return f.child.Close()
}

func (f *Filter) fetchNext() (*Tuple, error) {
	for {
		has, err := f.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			return nil, nil
		}
		t, err := f.child.Next()
		if err != nil {
			return nil, err
		}
		if f.pred.Filter(t) {
			return t, nil
		}
	}
}
