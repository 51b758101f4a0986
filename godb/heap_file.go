package godb

// HeapFile is an unordered collection of tuples backed by a flat file of
// fixed-size pages, per spec.md section 4.2. Unlike the course lab's
// HeapFile, which tracks per-page availability with a side slice that the
// caller must keep in sync, this version always asks the buffer pool for
// the current page and trusts numEmptySlots: simpler, and it cannot drift
// out of sync with the page's own header bitmap.

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// HeapFile is a DBFile backed by a single on-disk file of PageSize pages.
type HeapFile struct {
	backingFile string
	desc        *TupleDesc
	bufPool     *BufferPool
	tableID     int

	mu       sync.Mutex // serializes page-count growth (createNewPage)
	numPages int
}

// NewHeapFile constructs a HeapFile over fromFile, creating it if absent.
// fromFile may already contain pages from a prior run; its size on disk is
// trusted as the page count.
func NewHeapFile(fromFile string, desc *TupleDesc, bp *BufferPool) (*HeapFile, error) {
	if _, err := os.OpenFile(fromFile, os.O_CREATE|os.O_RDWR, 0666); err != nil {
		return nil, newIoErr("creating heap file %s: %v", fromFile, err)
	}
	abs, err := filepath.Abs(fromFile)
	if err != nil {
		abs = fromFile
	}
	hf := &HeapFile{
		backingFile: fromFile,
		desc:        desc,
		bufPool:     bp,
		tableID:     tableIDForPath(abs),
	}
	hf.numPages = hf.fileNumPages()
	return hf, nil
}

// tableIDForPath derives a stable table id from a backing file's absolute
// path, per spec.md section 4.2: two HeapFiles opened on the same path
// (even across process restarts) must agree on TableID so that PageIDs
// remain comparable.
func tableIDForPath(absPath string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(absPath))
	return int(h.Sum32())
}

// BackingFile returns the path of the file this HeapFile reads and writes.
func (f *HeapFile) BackingFile() string {
	return f.backingFile
}

// TableID returns this file's stable table identifier.
func (f *HeapFile) TableID() int {
	return f.tableID
}

// fileNumPages stats the backing file to compute how many full PageSize
// pages it currently holds.
func (f *HeapFile) fileNumPages() int {
	info, err := os.Stat(f.backingFile)
	if err != nil {
		return 0
	}
	return int(info.Size() / PageSize)
}

// NumPages returns the number of pages currently in the file.
func (f *HeapFile) NumPages() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.numPages
}

// Descriptor returns the file's tuple schema.
func (f *HeapFile) Descriptor() *TupleDesc {
	return f.desc
}

func (f *HeapFile) pageKey(pageNo int) any {
	return heapHash{TableID: f.tableID, PageNo: pageNo}
}

type heapHash struct {
	TableID int
	PageNo  int
}

// readPage reads page pageNo from the backing file and decodes it.
func (f *HeapFile) readPage(pageNo int) (Page, error) {
	file, err := os.OpenFile(f.backingFile, os.O_CREATE|os.O_RDWR, 0666)
	if err != nil {
		return nil, newIoErr("opening %s: %v", f.backingFile, err)
	}
	defer file.Close()

	buf := make([]byte, PageSize)
	offset := int64(pageNo) * PageSize
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, newIoErr("seeking to page %d of %s: %v", pageNo, f.backingFile, err)
	}
	if _, err := io.ReadFull(file, buf); err != nil {
		return nil, newIoErr("reading page %d of %s: %v", pageNo, f.backingFile, err)
	}

	id := PageID{TableID: f.tableID, PageNumber: pageNo}
	return newHeapPageFromBytes(id, f.desc, f, buf)
}

// flushPage writes p's current contents back to its slot in the backing
// file and clears its dirty bit.
func (f *HeapFile) flushPage(p Page) error {
	hp, ok := p.(*heapPage)
	if !ok {
		return newDbErr("flushPage: not a heapPage: %T", p)
	}

	data, err := hp.toBuffer()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(f.backingFile, os.O_CREATE|os.O_RDWR, 0666)
	if err != nil {
		return newIoErr("opening %s: %v", f.backingFile, err)
	}
	defer file.Close()

	offset := int64(hp.id.PageNumber) * PageSize
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return newIoErr("seeking to page %d of %s: %v", hp.id.PageNumber, f.backingFile, err)
	}
	if _, err := file.Write(data); err != nil {
		return newIoErr("writing page %d of %s: %v", hp.id.PageNumber, f.backingFile, err)
	}
	hp.setDirty(0, false)
	return nil
}

// insertTuple scans existing pages through the buffer pool looking for one
// with a free slot, falling back to appending a fresh page when none has
// room.
func (f *HeapFile) insertTuple(t *Tuple, tid TransactionID) error {
	numPages := f.NumPages()
	for pageNo := 0; pageNo < numPages; pageNo++ {
		page, err := f.bufPool.GetPage(f, pageNo, tid, WritePerm)
		if err != nil {
			return err
		}
		hp := page.(*heapPage)
		if hp.numEmptySlots() == 0 {
			continue
		}
		rid, err := hp.insertTuple(t)
		if err != nil {
			return err
		}
		hp.setDirty(tid, true)
		t.Rid = rid
		return nil
	}
	return f.createNewPage(t, tid)
}

// createNewPage appends a fresh page to the file, inserts t into it,
// flushes it immediately so NumPages reflects reality even if the page is
// later evicted before an explicit flush, and then re-reads it through the
// buffer pool so that it is resident like any other page.
func (f *HeapFile) createNewPage(t *Tuple, tid TransactionID) error {
	f.mu.Lock()
	pageNo := f.numPages
	f.numPages++
	f.mu.Unlock()

	id := PageID{TableID: f.tableID, PageNumber: pageNo}
	hp := newHeapPage(id, f.desc, f)
	rid, err := hp.insertTuple(t)
	if err != nil {
		return err
	}
	hp.setDirty(tid, true)
	t.Rid = rid

	if err := f.flushPage(hp); err != nil {
		return err
	}
	// Mark the pool's copy dirty after the flush so the page remains owned
	// by tid; flushPage's job is only to make the new page's existence
	// durable on disk, not to finalize the transaction.
	page, err := f.bufPool.GetPage(f, pageNo, tid, WritePerm)
	if err != nil {
		return err
	}
	page.setDirty(tid, true)
	return nil
}

// deleteTuple removes t from its recorded position.
func (f *HeapFile) deleteTuple(t *Tuple, tid TransactionID) error {
	if t.Rid == nil {
		return newDbErr("deleteTuple: tuple has no RecordID")
	}
	rid := t.Rid

	page, err := f.bufPool.GetPage(f, rid.PID.PageNumber, tid, WritePerm)
	if err != nil {
		return err
	}
	hp := page.(*heapPage)
	if err := hp.deleteTuple(rid); err != nil {
		return err
	}
	hp.setDirty(tid, true)
	return nil
}

// Iterator returns a function yielding every tuple in the file, page by
// page, via the buffer pool (so pages already resident are reused rather
// than re-read from disk).
func (f *HeapFile) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	pageNo := 0
	var cur func() (*Tuple, error)

	return func() (*Tuple, error) {
		for {
			if cur == nil {
				if pageNo >= f.NumPages() {
					return nil, nil
				}
				page, err := f.bufPool.GetPage(f, pageNo, tid, ReadPerm)
				if err != nil {
					return nil, err
				}
				cur = page.(*heapPage).tupleIter()
			}
			t, err := cur()
			if err != nil {
				return nil, err
			}
			if t != nil {
				return t, nil
			}
			cur = nil
			pageNo++
		}
	}, nil
}

// LoadFromCSV populates the file from a CSV reader. hasHeader skips the
// first line; sep is the field separator; skipLastField drops a trailing
// empty field produced by datasets whose lines end in the separator.
func (f *HeapFile) LoadFromCSV(file *os.File, hasHeader bool, sep string, skipLastField bool) error {
	scanner := bufio.NewScanner(file)
	lineNo := 0
	tid := NewTID()
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, sep)
		if skipLastField {
			fields = fields[:len(fields)-1]
		}
		if lineNo == 1 && hasHeader {
			continue
		}
		if len(fields) != len(f.desc.Fields) {
			return newParseErr("line %d: expected %d fields, got %d", lineNo, len(f.desc.Fields), len(fields))
		}

		values := make([]DBValue, len(fields))
		for i, raw := range fields {
			switch f.desc.Fields[i].Ftype {
			case IntType:
				raw = strings.TrimSpace(raw)
				n, err := strconv.ParseInt(raw, 10, 32)
				if err != nil {
					return newParseErr("line %d field %d: %q is not an int", lineNo, i, raw)
				}
				values[i] = IntField{Value: int32(n)}
			case StringType:
				values[i] = StringField{Value: raw}
			}
		}
		tup, err := NewTuple(f.desc, values)
		if err != nil {
			return err
		}
		if err := f.insertTuple(tup, tid); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return newIoErr("scanning CSV: %v", err)
	}
	return f.bufPool.FlushPages(tid)
}

func (f *HeapFile) String() string {
	return fmt.Sprintf("HeapFile{%s, tableID=%d, pages=%d}", f.backingFile, f.tableID, f.NumPages())
}
