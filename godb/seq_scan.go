package godb

// SeqScan is the leaf operator that reads every tuple of a DBFile in
// storage order, via that file's own Iterator method (which in turn pulls
// pages through the BufferPool). This operator does not exist by this
// name in the course lab, where a bare HeapFile satisfies the Operator
// interface directly; splitting scan out as its own operator is what the
// pull-based Open/HasNext/Next/Rewind contract (spec.md section 5)
// requires, since a HeapFile's Iterator has no Rewind of its own.
type SeqScan struct {
	baseOp
	file  DBFile
	alias string
	desc  *TupleDesc

	next func() (*Tuple, error)
}

// NewSeqScan constructs a scan of file. alias renames every field in the
// file's own descriptor (e.g. "t1.id" instead of "id") so that a join of
// two scans over the same table can still disambiguate fields; pass "" to
// keep the file's own field names.
func NewSeqScan(file DBFile, alias string) *SeqScan {
	desc := file.Descriptor()
	if alias != "" {
		desc = desc.Copy()
		for i := range desc.Fields {
			desc.Fields[i].Fname = alias + "." + desc.Fields[i].Fname
		}
	}
	return &SeqScan{file: file, alias: alias, desc: desc}
}

func (s *SeqScan) Descriptor() *TupleDesc {
	return s.desc
}

func (s *SeqScan) Children() []Operator {
	return nil
}

func (s *SeqScan) SetChildren(children []Operator) error {
	if len(children) != 0 {
		return newDbErr("SeqScan takes no children")
	}
	return nil
}

func (s *SeqScan) Open(tid TransactionID) error {
	it, err := s.file.Iterator(tid)
	if err != nil {
		return err
	}
	s.next = it
	s.initBase(s, tid)
	return nil
}

func (s *SeqScan) Rewind() error {
	it, err := s.file.Iterator(s.tid)
	if err != nil {
		return err
	}
	s.next = it
	s.resetLookahead()
	return nil
}

func (s *SeqScan) Close() error {
	s.next = nil
	s.closeBase()
	return nil
}

func (s *SeqScan) fetchNext() (*Tuple, error) {
	t, err := s.next()
	if err != nil || t == nil {
		return nil, err
	}
	out := &Tuple{Desc: s.desc, Fields: t.Fields, Rid: t.Rid}
	return out, nil
}
