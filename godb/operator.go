package godb

// Operator is the pull-based (volcano-style) query execution contract
// every node in an operator tree implements, per spec.md section 5. This
// differs from the course lab's Operator, which exposes a single method
// returning a closure (func() (*Tuple, error)): here every operator is
// opened once, polled with HasNext/Next in the usual iterator idiom, and
// can be rewound without reconstructing the tree, which the join needs to
// replay its inner input.
type Operator interface {
	// Open prepares the operator to produce tuples under tid. Open must be
	// called before HasNext, Next, or Rewind.
	Open(tid TransactionID) error

	// HasNext reports whether Next would return a tuple. Calling it
	// repeatedly without an intervening Next is cheap: the looked-ahead
	// tuple is cached until consumed.
	HasNext() (bool, error)

	// Next returns the next tuple, consuming it. Calling Next without a
	// tuple available (HasNext false) is an error.
	Next() (*Tuple, error)

	// Rewind resets the operator to produce its tuples again from the
	// start, without needing to Open again.
	Rewind() error

	// Close releases any resources held open by the operator.
	Close() error

	// Descriptor returns the schema of tuples this operator produces.
	Descriptor() *TupleDesc

	// Children returns the operator's child operators, if any.
	Children() []Operator

	// SetChildren replaces the operator's children. Used to graft a new
	// subtree (e.g. after an optimizer rewrite) without reconstructing the
	// parent.
	SetChildren(children []Operator) error
}

// fetcher is implemented by every concrete operator: it produces the next
// tuple, or (nil, nil) at end of input. baseOp wraps a fetcher with the
// one-tuple lookahead needed to answer HasNext without consuming.
type fetcher interface {
	fetchNext() (*Tuple, error)
}

// baseOp implements the caching half of the Operator contract (HasNext,
// Next) so that every concrete operator only needs to write fetchNext,
// Open, Rewind, Close, Descriptor, Children, and SetChildren. Embed it by
// value and call initBase(self, tid) from Open.
type baseOp struct {
	tid    TransactionID
	f      fetcher
	opened bool

	haveLookahead bool
	lookahead     *Tuple
	lookaheadErr  error
}

// initBase wires the embedding operator (which must implement fetcher) in
// as the tuple source and marks the operator open. Call from Open.
func (b *baseOp) initBase(self fetcher, tid TransactionID) {
	b.f = self
	b.tid = tid
	b.opened = true
	b.haveLookahead = false
	b.lookahead = nil
	b.lookaheadErr = nil
}

// resetLookahead discards any cached lookahead tuple, forcing the next
// HasNext to call fetchNext again. Concrete Rewind implementations call
// this after repositioning their own state.
func (b *baseOp) resetLookahead() {
	b.haveLookahead = false
	b.lookahead = nil
	b.lookaheadErr = nil
}

func (b *baseOp) closeBase() {
	b.opened = false
	b.resetLookahead()
}

func (b *baseOp) HasNext() (bool, error) {
	if !b.opened {
		return false, newDbErr("operator not open")
	}
	if !b.haveLookahead {
		b.lookahead, b.lookaheadErr = b.f.fetchNext()
		b.haveLookahead = true
	}
	if b.lookaheadErr != nil {
		return false, b.lookaheadErr
	}
	return b.lookahead != nil, nil
}

func (b *baseOp) Next() (*Tuple, error) {
	has, err := b.HasNext()
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, newDbErr("Next called with no tuple available")
	}
	t := b.lookahead
	b.haveLookahead = false
	b.lookahead = nil
	return t, nil
}

// drainAll pulls every remaining tuple from op. Used by OrderBy (a
// blocking sort) and by the operator tests.
func drainAll(op Operator) ([]*Tuple, error) {
	var out []*Tuple
	for {
		has, err := op.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			return out, nil
		}
		t, err := op.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
}
