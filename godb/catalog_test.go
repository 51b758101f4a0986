package godb

import "testing"

func TestCatalogRoundTrip(t *testing.T) {
	hf := populatedHeapFile(t, nil)
	cat := NewCatalog()
	cat.AddTable(hf, "widgets", "a")

	got, err := cat.LookupByName("widgets")
	if err != nil {
		t.Fatalf("LookupByName: %v", err)
	}
	if got != DBFile(hf) {
		t.Errorf("LookupByName returned a different file than registered")
	}

	got2, err := cat.LookupByID(hf.TableID())
	if err != nil {
		t.Fatalf("LookupByID: %v", err)
	}
	if got2 != DBFile(hf) {
		t.Errorf("LookupByID returned a different file than registered")
	}

	pk, err := cat.PrimaryKey(hf.TableID())
	if err != nil {
		t.Fatalf("PrimaryKey: %v", err)
	}
	if pk != "a" {
		t.Errorf("PrimaryKey = %q, want %q", pk, "a")
	}

	if _, err := cat.LookupByName("missing"); err == nil {
		t.Errorf("LookupByName(missing) succeeded, want error")
	}
}

func TestDatabaseResetClearsCatalogAndPool(t *testing.T) {
	db := GetDatabase()
	hf := populatedHeapFile(t, nil)
	db.Catalog().AddTable(hf, "widgets", "")
	oldPool := db.BufferPool()

	db.Reset()

	if _, err := db.Catalog().LookupByName("widgets"); err == nil {
		t.Errorf("table still registered after Reset")
	}
	if db.BufferPool() == oldPool {
		t.Errorf("buffer pool not replaced by Reset")
	}
}
