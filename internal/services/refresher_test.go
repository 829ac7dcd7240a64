package services

import (
	"context"
	"testing"
	"time"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/models"
)

func TestQueueRefreshDeduplicates(t *testing.T) {
	st := testProjectionStore(t)
	p := NewProjection(st, &fakeFetcher{}, 1)
	r := NewRefresher(p, time.Minute)

	if pos := r.QueueRefresh("a"); pos != 1 {
		t.Errorf("first queue position = %d, want 1", pos)
	}
	if pos := r.QueueRefresh("a"); pos != 1 {
		t.Errorf("re-queue of same entry should keep position 1, got %d", pos)
	}
	if pos := r.QueueRefresh("b"); pos != 2 {
		t.Errorf("second entry position = %d, want 2", pos)
	}
	if size := r.GetQueueSize(); size != 2 {
		t.Errorf("queue size = %d, want 2", size)
	}
}

func TestRefreshNowUpdatesStatus(t *testing.T) {
	st := testProjectionStore(t)
	fetcher := &fakeFetcher{summaries: map[string]*models.PriceSummary{
		"A": okSummary(10),
	}}
	addEntry(t, st, "A", "a")

	p := NewProjection(st, fetcher, 1)
	r := NewRefresher(p, time.Minute)

	r.RefreshNow(context.Background())

	status := r.GetStatus()
	if status.PassesCompleted != 1 {
		t.Errorf("passes completed = %d, want 1", status.PassesCompleted)
	}
	if status.LastRefreshTime.IsZero() {
		t.Error("last refresh time should be set")
	}
	if !status.NextRefreshTime.After(status.LastRefreshTime) {
		t.Error("next refresh time should be after the last one")
	}
}
