package godb

// This file defines the primitive types shared across the storage and
// operator layers: field types, page geometry constants, predicate
// operators, and the Page/DBFile collaborator interfaces. In the course
// repos this lab starter content ships as a staff-provided types.go that
// students build against but rarely commit; we write our own version here,
// to the letter of the on-disk contract in spec.md section 6.

// PageSize is the fixed size, in bytes, of every page in a HeapFile.
const PageSize = 4096

// StringLength is the total on-disk width of a STRING field, including its
// 4-byte big-endian length prefix.
const StringLength = 128

// stringPayloadLength is the number of bytes available for string payload
// once the length prefix is subtracted.
const stringPayloadLength = StringLength - 4

// DBType is the type of a tuple field.
type DBType int

const (
	IntType DBType = iota
	StringType
	UnknownType // not assigned by any code in this package; String reports it as "unknown"
)

func (t DBType) String() string {
	switch t {
	case IntType:
		return "int"
	case StringType:
		return "string"
	}
	return "unknown"
}

// bytesOnDisk returns the number of bytes a field of this type occupies on a
// page.
func (t DBType) bytesOnDisk() int32 {
	switch t {
	case IntType:
		return 4
	case StringType:
		return StringLength
	}
	return 0
}

// BoolOp names a predicate comparison operator.
type BoolOp int

const (
	OpEquals BoolOp = iota
	OpNotEquals
	OpLessThan
	OpLessThanOrEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLike
)

func (op BoolOp) String() string {
	switch op {
	case OpEquals:
		return "="
	case OpNotEquals:
		return "<>"
	case OpLessThan:
		return "<"
	case OpLessThanOrEqual:
		return "<="
	case OpGreaterThan:
		return ">"
	case OpGreaterThanOrEqual:
		return ">="
	case OpLike:
		return "LIKE"
	}
	return "?"
}

// RWPerm is the permission requested when fetching a page from the buffer
// pool.
type RWPerm int

const (
	ReadPerm RWPerm = iota
	WritePerm
)

// Page is the unit of data cached by the BufferPool and owned by a DBFile.
type Page interface {
	isDirty() bool
	setDirty(tid TransactionID, dirty bool)
	dirtyOwner() (TransactionID, bool)
	getFile() DBFile
	toBuffer() ([]byte, error)
}

// DBFile is a collaborator that knows how to read and write its own pages
// and iterate its own tuples. HeapFile is the only implementation the core
// engine specifies.
type DBFile interface {
	readPage(pageNo int) (Page, error)
	flushPage(p Page) error
	pageKey(pageNo int) any
	Descriptor() *TupleDesc
	NumPages() int
	insertTuple(t *Tuple, tid TransactionID) error
	deleteTuple(t *Tuple, tid TransactionID) error
	Iterator(tid TransactionID) (func() (*Tuple, error), error)
	TableID() int
}
