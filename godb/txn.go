package godb

import "sync/atomic"

// TransactionID is an opaque, monotonically increasing identifier
// attributing dirty pages to a logical unit of work. The core engine never
// interprets it beyond equality; the lock manager and log manager (out of
// scope, see spec.md section 1) are the intended owners of transaction
// semantics proper.
type TransactionID int64

var nextTid int64

// NewTID allocates a fresh TransactionID. Safe for concurrent use.
func NewTID() TransactionID {
	return TransactionID(atomic.AddInt64(&nextTid, 1))
}
