package equipment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "equipment.jsonl")

	store1 := NewFileStore(path)
	store1.Put(
		Equipment{ID: "2", Name: "Autoclave", Category: "Sterilization", Criticality: 7, Value: 42000},
		Equipment{ID: "1", Name: "MRI Scanner", Type: "imaging", Criticality: 9, Value: 1500000, DepartmentID: "4", EstimatedRevenueHourly: ptr(900)},
	)
	if err := store1.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("Expected temp file to be renamed away, stat err = %v", err)
	}

	store2 := NewFileStore(path)
	if err := store2.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	items := store2.List()
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].ID != "1" || items[1].ID != "2" {
		t.Errorf("Expected items ordered by id, got %s, %s", items[0].ID, items[1].ID)
	}

	mri, err := store2.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if mri.Name != "MRI Scanner" || mri.DepartmentID != "4" {
		t.Errorf("Unexpected equipment %+v", mri)
	}
	if mri.EstimatedRevenueHourly == nil || *mri.EstimatedRevenueHourly != 900 {
		t.Errorf("Expected department revenue 900, got %v", mri.EstimatedRevenueHourly)
	}

	// Mutating the returned copy must not leak into the store
	*mri.EstimatedRevenueHourly = 1
	again, _ := store2.Get(context.Background(), "1")
	if *again.EstimatedRevenueHourly != 900 {
		t.Errorf("REGRESSION: Get returned shared state, revenue now %v", *again.EstimatedRevenueHourly)
	}
}

func TestFileStore_NotFound(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "equipment.jsonl"))
	if _, err := store.Get(context.Background(), "404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_SkipsInvalidLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equipment.jsonl")
	content := `{"id":"1","name":"Ventilator","criticality":10,"value":30000}
not json

{"name":"missing id"}
{"id":"3","name":"Infusion Pump","criticality":6,"value":2500}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	store := NewFileStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := len(store.List()); got != 2 {
		t.Errorf("Expected 2 valid items, got %d", got)
	}
}
