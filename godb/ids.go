package godb

import "fmt"

// PageID names a page by the table it belongs to and its 0-based offset
// within that table's heap file. Equality and hashing derive from both
// fields, which is why PageID is a plain comparable struct usable directly
// as a map key.
type PageID struct {
	TableID    int
	PageNumber int
}

func (p PageID) String() string {
	return fmt.Sprintf("page(%d,%d)", p.TableID, p.PageNumber)
}

// RecordID names a tuple's on-disk position: the page it lives on and its
// slot index within that page.
type RecordID struct {
	PID  PageID
	Slot int
}

func (r RecordID) String() string {
	return fmt.Sprintf("rid(%s,%d)", r.PID, r.Slot)
}
