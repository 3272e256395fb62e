package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgallion1/catalogsync/internal/catalog"
	"github.com/dgallion1/catalogsync/internal/checkpoint"
	"github.com/dgallion1/catalogsync/internal/document"
	"github.com/dgallion1/catalogsync/internal/observability"
	"github.com/dgallion1/catalogsync/internal/parser"
)

// Opener opens the document to import.
type Opener func(path string) (document.Document, error)

// Syncer is the remote side of a page: asset upload and product upsert.
type Syncer interface {
	UploadAssets(ctx context.Context, identifier string, assets []catalog.Asset) ([]string, error)
	UpsertProduct(ctx context.Context, p *catalog.Product, imageURLs []string) error
}

// Reporter is told about progress through the page range.
type Reporter interface {
	Start(total int)
	PageDone(page int)
	// Finish is called once the whole range is done.
	Finish()
	// Abort is called instead of Finish when the run stops early.
	Abort()
}

// Options selects what to import. Page numbers are 1-based and inclusive;
// zero leaves a bound unset.
type Options struct {
	Path      string
	StartPage int
	EndPage   int
	Resume    bool
}

// Deps are the collaborators of an Importer. Metrics and Progress are
// optional.
type Deps struct {
	Open       Opener
	Sync       Syncer
	Checkpoint checkpoint.Store
	Metrics    *observability.Metrics
	Progress   Reporter
	Log        *slog.Logger
}

// Importer walks a document page by page: parse, sync, checkpoint.
type Importer struct {
	open       Opener
	sync       Syncer
	checkpoint checkpoint.Store
	metrics    *observability.Metrics
	progress   Reporter
	log        *slog.Logger
	currency   string

	mu      sync.Mutex
	current *Run
}

// NewImporter creates an importer that stamps currency on every product.
func NewImporter(d Deps, currency string) *Importer {
	progress := d.Progress
	if progress == nil {
		progress = nopReporter{}
	}
	return &Importer{
		open:       d.Open,
		sync:       d.Sync,
		checkpoint: d.Checkpoint,
		metrics:    d.Metrics,
		progress:   progress,
		log:        d.Log,
		currency:   currency,
	}
}

// Current returns the state of the active or most recent run.
func (im *Importer) Current() (RunSnapshot, bool) {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.current == nil {
		return RunSnapshot{}, false
	}
	return im.current.Snapshot(), true
}

func (im *Importer) setCurrent(r *Run) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.current = r
}

// Run imports the selected pages in order. Each page is fully synced and
// checkpointed before the next one starts; the first sync or checkpoint
// failure ends the run. The context is checked between pages.
func (im *Importer) Run(ctx context.Context, opts Options) (RunSnapshot, error) {
	run := NewRun(opts.Path)
	im.setCurrent(run)
	log := im.log.With("run_id", run.ID)

	doc, err := im.open(opts.Path)
	if err != nil {
		return im.fail(run, fmt.Errorf("open document: %w", err))
	}
	defer doc.Close()

	last, haveLast := 0, false
	if opts.Resume {
		last, haveLast = im.checkpoint.Load(ctx)
		if haveLast {
			run.SetLastCheckpoint(last)
			log.Info("resuming from checkpoint", "last_completed_page", last)
		} else {
			log.Info("no checkpoint found, starting at range start")
		}
	}

	start, end := resolveRange(doc.NumPage(), opts, last, haveLast)
	run.SetRange(start+1, end+1)
	if start > end {
		log.Info("nothing to import", "pages", doc.NumPage(), "last_completed_page", last)
		run.SetStatus(StatusCompleted)
		return run.Snapshot(), nil
	}

	log.Info("import started", "document", opts.Path, "first_page", start+1, "last_page", end+1)
	run.SetStatus(StatusRunning)
	im.progress.Start(end - start + 1)

	pages := parser.NewPageParser(doc, im.currency, log)
	for i := start; i <= end; i++ {
		if err := ctx.Err(); err != nil {
			im.progress.Abort()
			return im.fail(run, fmt.Errorf("stopped before page %d: %w", i+1, err))
		}
		if err := im.processPage(ctx, log, pages, run, i); err != nil {
			im.progress.Abort()
			return im.fail(run, err)
		}
	}
	im.progress.Finish()

	run.SetStatus(StatusCompleted)
	snap := run.Snapshot()
	log.Info("import finished",
		"pages", snap.Progress.PagesProcessed,
		"upserted", snap.Progress.ProductsUpserted,
		"skipped", snap.Progress.ProductsSkipped,
		"assets", snap.Progress.AssetsUploaded,
		"assets_failed", snap.Progress.AssetsFailed,
	)
	return snap, nil
}

func (im *Importer) processPage(ctx context.Context, log *slog.Logger, pages *parser.PageParser, run *Run, index int) error {
	pageNum := index + 1
	log = log.With("page", pageNum)
	run.SetCurrentPage(pageNum)

	product, err := pages.ParsePage(index)
	if err != nil {
		return fmt.Errorf("parse page %d: %w", pageNum, err)
	}

	urls, err := im.sync.UploadAssets(ctx, product.Identifier(), product.Assets)
	if err != nil {
		return fmt.Errorf("page %d: %w", pageNum, err)
	}

	upserted := false
	if product.ProductCode != nil {
		if err := im.sync.UpsertProduct(ctx, product, urls); err != nil {
			return fmt.Errorf("page %d: %w", pageNum, err)
		}
		upserted = true
		log.Info("product upserted", "product_code", *product.ProductCode, "images", len(urls))
	} else {
		log.Warn("no product code detected, skipping upsert", "images", len(urls))
	}

	if err := im.checkpoint.Save(ctx, pageNum); err != nil {
		return fmt.Errorf("save checkpoint for page %d: %w", pageNum, err)
	}

	run.PageDone(pageNum, upserted, len(urls), product.SkippedAssets)
	im.metrics.PageDone(pageNum, upserted, len(urls), product.SkippedAssets)
	im.progress.PageDone(pageNum)
	return nil
}

func (im *Importer) fail(run *Run, err error) (RunSnapshot, error) {
	run.AddError(err.Error())
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		run.SetStatus(StatusCancelled)
	} else {
		run.SetStatus(StatusFailed)
	}
	return run.Snapshot(), err
}

// resolveRange returns the 0-based inclusive page indices to process. The
// range is empty when start > end.
//
// When resuming, last is the last completed 1-based page, so index last is
// the next page to do. Resume never moves start backwards past an explicit
// StartPage. A checkpoint beyond the end of the range means the whole range
// is already done.
func resolveRange(pageCount int, opts Options, last int, haveLast bool) (start, end int) {
	if opts.StartPage > 0 {
		start = opts.StartPage - 1
	}
	end = pageCount - 1
	if opts.EndPage > 0 {
		end = min(opts.EndPage-1, end)
	}

	if opts.Resume && haveLast {
		if last <= end {
			start = max(start, last)
		} else {
			// Unlike resetting to the range start, this never re-imports
			// pages at or below the checkpoint.
			start = end + 1
		}
	}
	return start, end
}

type nopReporter struct{}

func (nopReporter) Start(int)    {}
func (nopReporter) PageDone(int) {}
func (nopReporter) Finish()      {}
func (nopReporter) Abort()       {}
