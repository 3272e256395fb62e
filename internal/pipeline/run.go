package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the state of an import run.
type RunStatus string

const (
	StatusPending   RunStatus = "pending"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
	StatusCancelled RunStatus = "cancelled"
)

// Run tracks the state of a single import over one document.
type Run struct {
	mu sync.Mutex

	ID       string
	Document string

	Status      RunStatus
	FirstPage   int // 1-based, inclusive
	LastPage    int
	CurrentPage int

	Progress       Progress
	LastCheckpoint int

	StartedAt time.Time
	UpdatedAt time.Time
}

// Progress counts what a run has done so far.
type Progress struct {
	PagesTotal       int      `json:"pages_total"`
	PagesProcessed   int      `json:"pages_processed"`
	ProductsUpserted int      `json:"products_upserted"`
	ProductsSkipped  int      `json:"products_skipped"`
	AssetsUploaded   int      `json:"assets_uploaded"`
	AssetsFailed     int      `json:"assets_failed"`
	Errors           []string `json:"errors"`
}

func NewRun(document string) *Run {
	now := time.Now()
	return &Run{
		ID:        uuid.NewString(),
		Document:  document,
		Status:    StatusPending,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus updates run status atomically.
func (r *Run) SetStatus(status RunStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
	r.UpdatedAt = time.Now()
}

// SetRange records the resolved 1-based page range. An empty range has
// first > last.
func (r *Run) SetRange(first, last int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FirstPage = first
	r.LastPage = last
	r.Progress.PagesTotal = max(0, last-first+1)
	r.UpdatedAt = time.Now()
}

func (r *Run) SetCurrentPage(page int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CurrentPage = page
	r.UpdatedAt = time.Now()
}

func (r *Run) SetLastCheckpoint(page int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastCheckpoint = page
	r.UpdatedAt = time.Now()
}

// AddError records an error.
func (r *Run) AddError(err string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Progress.Errors = append(r.Progress.Errors, err)
	r.UpdatedAt = time.Now()
}

// PageDone records a checkpointed page.
func (r *Run) PageDone(page int, upserted bool, uploaded, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Progress.PagesProcessed++
	if upserted {
		r.Progress.ProductsUpserted++
	} else {
		r.Progress.ProductsSkipped++
	}
	r.Progress.AssetsUploaded += uploaded
	r.Progress.AssetsFailed += failed
	r.LastCheckpoint = page
	r.UpdatedAt = time.Now()
}

// RunSnapshot is a read-only, JSON-safe copy of run state.
type RunSnapshot struct {
	ID             string    `json:"run_id"`
	Document       string    `json:"document"`
	Status         RunStatus `json:"status"`
	FirstPage      int       `json:"first_page"`
	LastPage       int       `json:"last_page"`
	CurrentPage    int       `json:"current_page"`
	LastCheckpoint int       `json:"last_checkpoint"`
	Progress       Progress  `json:"progress"`
	StartedAt      time.Time `json:"started_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the run state.
func (r *Run) Snapshot() RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	progress := r.Progress
	progress.Errors = append([]string{}, r.Progress.Errors...)
	return RunSnapshot{
		ID:             r.ID,
		Document:       r.Document,
		Status:         r.Status,
		FirstPage:      r.FirstPage,
		LastPage:       r.LastPage,
		CurrentPage:    r.CurrentPage,
		LastCheckpoint: r.LastCheckpoint,
		Progress:       progress,
		StartedAt:      r.StartedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
