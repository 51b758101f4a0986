package godb

// Catalog is the process-wide registry from table id to the DBFile that
// backs it, per spec.md section 4.7. Populating a Catalog from a textual
// table-definition file ("name (field type [pk], ...)") is a front-end
// concern, out of scope here (spec.md section 1); this type only
// implements the lookups the core engine and its operators need.
import "sync"

type catalogEntry struct {
	file DBFile
	name string
	pkey string
}

// Catalog maps table ids to their backing file, display name, and primary
// key field name. Registering the same id or name twice replaces the
// earlier entry.
type Catalog struct {
	mu       sync.Mutex
	byID     map[int]*catalogEntry
	byName   map[string]*catalogEntry
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID:   make(map[int]*catalogEntry),
		byName: make(map[string]*catalogEntry),
	}
}

// AddTable registers file under name with the given primary key field
// name (empty if the table has none). The table id is file.TableID().
func (c *Catalog) AddTable(file DBFile, name string, pkey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &catalogEntry{file: file, name: name, pkey: pkey}
	c.byID[file.TableID()] = entry
	c.byName[name] = entry
}

// LookupByID returns the file registered under tableID.
func (c *Catalog) LookupByID(tableID int) (DBFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.byID[tableID]
	if !ok {
		return nil, newDbErr("no table registered with id %d", tableID)
	}
	return entry.file, nil
}

// LookupByName returns the file registered under name.
func (c *Catalog) LookupByName(name string) (DBFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.byName[name]
	if !ok {
		return nil, newDbErr("no table registered with name %q", name)
	}
	return entry.file, nil
}

// TupleDesc returns the descriptor of the file registered under tableID.
func (c *Catalog) TupleDesc(tableID int) (*TupleDesc, error) {
	file, err := c.LookupByID(tableID)
	if err != nil {
		return nil, err
	}
	return file.Descriptor(), nil
}

// PrimaryKey returns the primary key field name registered for tableID,
// which may be empty if the table has none.
func (c *Catalog) PrimaryKey(tableID int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.byID[tableID]
	if !ok {
		return "", newDbErr("no table registered with id %d", tableID)
	}
	return entry.pkey, nil
}

// TableIDs returns every registered table id, in no particular order.
func (c *Catalog) TableIDs() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]int, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	return ids
}
