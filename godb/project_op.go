package godb

// Project is a supplemental operator (not named by the core engine, but a
// natural companion to it): it narrows and renames a child's fields, with
// an optional distinct pass. Adapted from the course lab's Project, with
// selectFields now a list of child field indices rather than a list of
// Exprs, matching this engine's field-index Predicate contract.
type Project struct {
	baseOp
	fieldIndices []int
	outputNames  []string
	distinct     bool
	child        Operator
	desc         *TupleDesc

	seen map[string]struct{}
}

// NewProject constructs a projection of child onto fieldIndices, renaming
// them outputNames (same length as fieldIndices).
func NewProject(fieldIndices []int, outputNames []string, distinct bool, child Operator) (*Project, error) {
	if len(fieldIndices) != len(outputNames) {
		return nil, newIllegalArgErr("Project: %d field indices but %d output names", len(fieldIndices), len(outputNames))
	}
	childDesc := child.Descriptor()
	fields := make([]FieldType, len(fieldIndices))
	for i, idx := range fieldIndices {
		if idx < 0 || idx >= len(childDesc.Fields) {
			return nil, newIllegalArgErr("Project: field index %d out of range", idx)
		}
		fields[i] = FieldType{Fname: outputNames[i], Ftype: childDesc.Fields[idx].Ftype}
	}
	return &Project{
		fieldIndices: fieldIndices,
		outputNames:  outputNames,
		distinct:     distinct,
		child:        child,
		desc:         &TupleDesc{Fields: fields},
	}, nil
}

func (p *Project) Descriptor() *TupleDesc {
	return p.desc
}

func (p *Project) Children() []Operator {
	return []Operator{p.child}
}

func (p *Project) SetChildren(children []Operator) error {
	if len(children) != 1 {
		return newDbErr("Project takes exactly one child")
	}
	p.child = children[0]
	return nil
}

func (p *Project) Open(tid TransactionID) error {
	if err := p.child.Open(tid); err != nil {
		return err
	}
	if p.distinct {
		p.seen = make(map[string]struct{})
	}
	p.initBase(p, tid)
	return nil
}

func (p *Project) Rewind() error {
	if err := p.child.Rewind(); err != nil {
		return err
	}
	if p.distinct {
		p.seen = make(map[string]struct{})
	}
	p.resetLookahead()
	return nil
}

func (p *Project) Close() error {
	p.closeBase()
	return p.child.Close()
}

func (p *Project) fetchNext() (*Tuple, error) {
	for {
		has, err := p.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			return nil, nil
		}
		t, err := p.child.Next()
		if err != nil {
			return nil, err
		}

		fields := make([]DBValue, len(p.fieldIndices))
		for i, idx := range p.fieldIndices {
			fields[i] = t.Fields[idx]
		}
		out := &Tuple{Desc: p.desc, Fields: fields}

		if p.distinct {
			key := out.tupleKey()
			if _, dup := p.seen[key]; dup {
				continue
			}
			p.seen[key] = struct{}{}
		}
		return out, nil
	}
}
