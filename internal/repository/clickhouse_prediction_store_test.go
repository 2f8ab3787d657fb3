package repository

import (
	"testing"
	"time"

	"StockCast/internal/domain/models"
)

func TestSortByCreatedAtDesc(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recs := []models.PredictionRecord{
		{ID: "b", CreatedAt: base.Add(1 * time.Hour)},
		{ID: "d", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "a", CreatedAt: base},
		{ID: "c", CreatedAt: base.Add(2 * time.Hour)},
	}

	SortByCreatedAtDesc(recs)

	want := []string{"d", "c", "b", "a"}
	for i, id := range want {
		if recs[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, recs[i].ID, id)
		}
	}
}

func TestSortByCreatedAtDescStableOnTies(t *testing.T) {
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recs := []models.PredictionRecord{
		{ID: "first", CreatedAt: at},
		{ID: "second", CreatedAt: at},
	}

	SortByCreatedAtDesc(recs)

	if recs[0].ID != "first" || recs[1].ID != "second" {
		t.Fatalf("tie order changed: %s, %s", recs[0].ID, recs[1].ID)
	}
}
