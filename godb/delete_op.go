package godb

// DeleteOp mirrors InsertOp: it drains its child, deletes every tuple
// from a target DBFile via the BufferPool (using each tuple's Rid, set
// when it was read via a scan), and reports the count as a single
// one-field tuple. Routed through BufferPool.DeleteTuple per spec.md
// section 4.5, rather than calling the file directly.
type DeleteOp struct {
	baseOp
	bp    *BufferPool
	file  DBFile
	child Operator
	desc  *TupleDesc
	done  bool
}

// NewDeleteOp constructs an operator that deletes child's tuples from
// file via bp.
func NewDeleteOp(bp *BufferPool, file DBFile, child Operator) *DeleteOp {
	return &DeleteOp{
		bp:    bp,
		file:  file,
		child: child,
		desc:  &TupleDesc{Fields: []FieldType{{Fname: "count", Ftype: IntType}}},
	}
}

func (d *DeleteOp) Descriptor() *TupleDesc {
	return d.desc
}

func (d *DeleteOp) Children() []Operator {
	return []Operator{d.child}
}

func (d *DeleteOp) SetChildren(children []Operator) error {
	if len(children) != 1 {
		return newDbErr("DeleteOp takes exactly one child")
	}
	d.child = children[0]
	return nil
}

func (d *DeleteOp) Open(tid TransactionID) error {
	if err := d.child.Open(tid); err != nil {
		return err
	}
	d.done = false
	d.initBase(d, tid)
	return nil
}

func (d *DeleteOp) Rewind() error {
	if err := d.child.Rewind(); err != nil {
		return err
	}
	d.done = false
	d.resetLookahead()
	return nil
}

func (d *DeleteOp) Close() error {
	d.closeBase()
	return d.child.Close()
}

func (d *DeleteOp) fetchNext() (*Tuple, error) {
	if d.done {
		return nil, nil
	}
	d.done = true

	count := int32(0)
	for {
		has, err := d.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		t, err := d.child.Next()
		if err != nil {
			return nil, err
		}
		if err := d.bp.DeleteTuple(d.tid, d.file, t); err != nil {
			return nil, err
		}
		count++
	}
	return &Tuple{Desc: d.desc, Fields: []DBValue{IntField{Value: count}}}, nil
}
