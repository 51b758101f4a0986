package godb

import "testing"

func TestComputeTableStatsIntColumn(t *testing.T) {
	hf := populatedHeapFile(t, [][2]any{
		{int32(1), "a"}, {int32(5), "b"}, {int32(10), "c"},
	})

	stats, err := ComputeTableStats(hf.bufPool, hf)
	if err != nil {
		t.Fatalf("ComputeTableStats: %v", err)
	}
	if stats.numTups != 3 {
		t.Fatalf("numTups = %d, want 3", stats.numTups)
	}

	sel, err := stats.EstimateSelectivity("a", OpEquals, IntField{Value: 5})
	if err != nil {
		t.Fatalf("EstimateSelectivity: %v", err)
	}
	if sel <= 0 || sel > 1 {
		t.Errorf("selectivity = %v, want in (0,1]", sel)
	}

	if cost := stats.EstimateScanCost(); cost != float64(stats.numPages)*CostPerPage {
		t.Errorf("EstimateScanCost = %v, want %v", cost, float64(stats.numPages)*CostPerPage)
	}
	if card := stats.EstimateCardinality(0.5); card != 1 {
		t.Errorf("EstimateCardinality(0.5) of 3 rows = %d, want 1", card)
	}
}

func TestTableStatsUnknownFieldFallsBackToOne(t *testing.T) {
	hf := populatedHeapFile(t, [][2]any{{int32(1), "a"}})
	stats, err := ComputeTableStats(hf.bufPool, hf)
	if err != nil {
		t.Fatalf("ComputeTableStats: %v", err)
	}
	sel, err := stats.EstimateSelectivity("nonexistent", OpEquals, IntField{Value: 1})
	if err != nil {
		t.Fatalf("EstimateSelectivity: %v", err)
	}
	if sel != 1.0 {
		t.Errorf("selectivity for unknown field = %v, want 1.0", sel)
	}
}
