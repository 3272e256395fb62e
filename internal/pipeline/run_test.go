package pipeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewRun(t *testing.T) {
	r := NewRun("catalogue.pdf")
	if _, err := uuid.Parse(r.ID); err != nil {
		t.Errorf("expected a UUID run id, got %q: %v", r.ID, err)
	}
	if r.Status != StatusPending {
		t.Errorf("expected status %q, got %q", StatusPending, r.Status)
	}
	if r.Document != "catalogue.pdf" {
		t.Errorf("expected document %q, got %q", "catalogue.pdf", r.Document)
	}
	if NewRun("x").ID == r.ID {
		t.Error("expected distinct run ids")
	}
}

func TestRun_StateTransitions(t *testing.T) {
	r := NewRun("doc.pdf")
	for _, status := range []RunStatus{StatusRunning, StatusCompleted} {
		before := r.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		r.SetStatus(status)

		if r.Status != status {
			t.Errorf("expected status %q, got %q", status, r.Status)
		}
		if !r.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", status)
		}
	}
}

func TestRun_SetRange(t *testing.T) {
	r := NewRun("doc.pdf")
	r.SetRange(3, 7)
	snap := r.Snapshot()
	if snap.FirstPage != 3 || snap.LastPage != 7 {
		t.Errorf("range = %d..%d, want 3..7", snap.FirstPage, snap.LastPage)
	}
	if snap.Progress.PagesTotal != 5 {
		t.Errorf("expected 5 pages total, got %d", snap.Progress.PagesTotal)
	}

	r.SetRange(8, 7)
	if got := r.Snapshot().Progress.PagesTotal; got != 0 {
		t.Errorf("empty range should total 0 pages, got %d", got)
	}
}

func TestRun_PageDone(t *testing.T) {
	r := NewRun("doc.pdf")
	r.PageDone(4, true, 3, 1)
	r.PageDone(5, false, 1, 0)

	snap := r.Snapshot()
	p := snap.Progress
	if p.PagesProcessed != 2 || p.ProductsUpserted != 1 || p.ProductsSkipped != 1 {
		t.Errorf("unexpected page counters %+v", p)
	}
	if p.AssetsUploaded != 4 || p.AssetsFailed != 1 {
		t.Errorf("unexpected asset counters %+v", p)
	}
	if snap.LastCheckpoint != 5 {
		t.Errorf("expected last checkpoint 5, got %d", snap.LastCheckpoint)
	}
}

func TestRun_AddError(t *testing.T) {
	r := NewRun("doc.pdf")
	r.AddError("page 3 failed")
	r.AddError("page 7 failed")

	snap := r.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "page 3 failed" {
		t.Errorf("expected first error %q, got %q", "page 3 failed", snap.Progress.Errors[0])
	}
}

func TestRun_SnapshotErrorsNotNil(t *testing.T) {
	snap := NewRun("doc.pdf").Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
}

func TestRun_SnapshotIsCopy(t *testing.T) {
	r := NewRun("doc.pdf")
	r.AddError("first")
	snap := r.Snapshot()
	r.AddError("second")
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("snapshot should not see later errors, got %v", snap.Progress.Errors)
	}
}
