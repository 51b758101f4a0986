package godb

import "sort"

// OrderBy is a blocking operator: on Open it drains its child into a
// slice, sorts it once, and then serves tuples from that slice. Adapted
// from the course lab's OrderBy, with the sort keys now field indices
// instead of Exprs.
type OrderBy struct {
	baseOp
	fieldIndices []int
	ascending    []bool
	child        Operator
	desc         *TupleDesc

	sorted []*Tuple
	pos    int
}

// NewOrderBy constructs an operator sorting child's output by
// fieldIndices, in ascending order wherever ascending[i] is true.
func NewOrderBy(fieldIndices []int, ascending []bool, child Operator) (*OrderBy, error) {
	if len(fieldIndices) != len(ascending) {
		return nil, newIllegalArgErr("OrderBy: %d field indices but %d ascending flags", len(fieldIndices), len(ascending))
	}
	return &OrderBy{
		fieldIndices: fieldIndices,
		ascending:    ascending,
		child:        child,
		desc:         child.Descriptor(),
	}, nil
}

func (o *OrderBy) Descriptor() *TupleDesc {
	return o.desc
}

func (o *OrderBy) Children() []Operator {
	return []Operator{o.child}
}

func (o *OrderBy) SetChildren(children []Operator) error {
	if len(children) != 1 {
		return newDbErr("OrderBy takes exactly one child")
	}
	o.child = children[0]
	o.desc = o.child.Descriptor()
	return nil
}

func (o *OrderBy) Open(tid TransactionID) error {
	if err := o.child.Open(tid); err != nil {
		return err
	}
	sorted, err := drainAll(o.child)
	if err != nil {
		return err
	}
	o.sort(sorted)
	o.sorted = sorted
	o.pos = 0
	o.initBase(o, tid)
	return nil
}

func (o *OrderBy) Rewind() error {
	o.pos = 0
	o.resetLookahead()
	return nil
}

func (o *OrderBy) Close() error {
	o.closeBase()
	o.sorted = nil
	return o.child.Close()
}

func (o *OrderBy) sort(tuples []*Tuple) {
	sort.SliceStable(tuples, func(i, j int) bool {
		a, b := tuples[i], tuples[j]
		for k, idx := range o.fieldIndices {
			order, err := compareFields(a.Fields[idx], b.Fields[idx])
			if err != nil || order == OrderedEqual {
				continue
			}
			if o.ascending[k] {
				return order == OrderedLessThan
			}
			return order == OrderedGreaterThan
		}
		return false
	})
}

func (o *OrderBy) fetchNext() (*Tuple, error) {
	if o.pos >= len(o.sorted) {
		return nil, nil
	}
	t := o.sorted[o.pos]
	o.pos++
	return t, nil
}
