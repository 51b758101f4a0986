package godb

// InsertOp drains its child and inserts every tuple into a target DBFile
// via the BufferPool, then reports the count as a single one-field
// tuple. Structurally the same shape as the course lab's InsertOp;
// adapted to the new Operator contract (fetchNext does the draining work
// lazily, on first pull, rather than the constructor's Iterator closure
// doing it eagerly) and routed through BufferPool.InsertTuple per
// spec.md section 4.5, rather than calling the file directly.
type InsertOp struct {
	baseOp
	bp    *BufferPool
	file  DBFile
	child Operator
	desc  *TupleDesc
	done  bool
}

// NewInsertOp constructs an operator that inserts child's tuples into
// file via bp.
func NewInsertOp(bp *BufferPool, file DBFile, child Operator) *InsertOp {
	return &InsertOp{
		bp:    bp,
		file:  file,
		child: child,
		desc:  &TupleDesc{Fields: []FieldType{{Fname: "count", Ftype: IntType}}},
	}
}

func (i *InsertOp) Descriptor() *TupleDesc {
	return i.desc
}

func (i *InsertOp) Children() []Operator {
	return []Operator{i.child}
}

func (i *InsertOp) SetChildren(children []Operator) error {
	if len(children) != 1 {
		return newDbErr("InsertOp takes exactly one child")
	}
	i.child = children[0]
	return nil
}

func (i *InsertOp) Open(tid TransactionID) error {
	if err := i.child.Open(tid); err != nil {
		return err
	}
	i.done = false
	i.initBase(i, tid)
	return nil
}

func (i *InsertOp) Rewind() error {
	if err := i.child.Rewind(); err != nil {
		return err
	}
	i.done = false
	i.resetLookahead()
	return nil
}

func (i *InsertOp) Close() error {
	i.closeBase()
	return i.child.Close()
}

func (i *InsertOp) fetchNext() (*Tuple, error) {
	if i.done {
		return nil, nil
	}
	i.done = true

	count := int32(0)
	for {
		has, err := i.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		t, err := i.child.Next()
		if err != nil {
			return nil, err
		}
		if err := i.bp.InsertTuple(i.tid, i.file.TableID(), i.file, t); err != nil {
			return nil, err
		}
		count++
	}
	return &Tuple{Desc: i.desc, Fields: []DBValue{IntField{Value: count}}}, nil
}
