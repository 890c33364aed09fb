package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/qaforge/internal/coverage"
	"github.com/dgallion1/qaforge/internal/parser"
	"github.com/dgallion1/qaforge/internal/qa"
	"github.com/dgallion1/qaforge/internal/qastore"
	"github.com/dgallion1/qaforge/internal/segment"
	"github.com/dgallion1/qaforge/internal/target"
)

// Worker processes a single document job. Sections are processed one at a
// time, in document order, so the backend sees at most one request per
// document at any moment.
type Worker struct {
	cover       *coverage.Controller
	store       *qastore.Store
	log         *slog.Logger
	pdfFallback bool
}

func NewWorker(gen coverage.Generator, store *qastore.Store, log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{
		cover:       coverage.New(gen, log),
		store:       store,
		log:         log,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full generation pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = w.pdfFallback
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title == "" {
		job.Title = doc.Title
	}
	job.ContentHash = ContentHashHex([]byte(doc.Text))

	words := target.CountWords(doc.Text)
	targets := target.Estimate(words)
	log.Info("document parsed",
		"words", words,
		"base_goal", targets.BaseGoal,
		"min_acceptable", targets.MinAcceptable)

	// Phase 1.5: Skip documents that already have an acceptable Q&A file.
	existing, ok, err := w.store.Existing(job.Filename, targets.MinAcceptable)
	if err != nil {
		log.Warn("existing-output check failed, regenerating", "error", err)
	} else if ok {
		log.Info("acceptable output already stored, skipping", "items", len(existing))
		job.AddItems(len(existing))
		job.SetStatus(StatusCached, "cached")
		return
	}

	// Phase 2: Segment by top-level headings.
	job.SetStatus(StatusSegmenting, "segmenting")
	sections := segment.Split(doc.Text, segment.ByHeading)
	job.SetPlan(len(sections), targets.GenerationTarget)
	log.Info("document segmented", "sections", len(sections))

	// Phase 3: Generate per section, sequentially and in order.
	job.SetStatus(StatusGenerating, "generating")
	var items []qa.Item
	hadErrors := false
	for i, section := range sections {
		if ctx.Err() != nil {
			job.AddError("cancelled: " + ctx.Err().Error())
			job.SetStatus(StatusFailed, "generating")
			return
		}
		// Section goals split the document's generation target, not the base
		// goal, so the over-generation buffer survives proportional scaling.
		sectionGoal := target.Scale(targets.GenerationTarget, target.CountWords(section), words)
		got := w.cover.Cover(ctx, section, sectionGoal)
		if len(got) == 0 {
			log.Warn("section yielded nothing", "section", i+1, "goal", sectionGoal)
			job.AddError(fmt.Sprintf("section %d: no pairs generated", i+1))
			hadErrors = true
		}
		items = append(items, got...)
		job.IncrSectionsProcessed()
		job.AddItems(len(got))
	}

	log.Info("generation complete",
		"items", len(items), "goal", targets.GenerationTarget, "errors", hadErrors)

	if len(items) == 0 {
		job.SetStatus(StatusFailed, "generating")
		return
	}

	// Phase 4: Persist.
	job.SetStatus(StatusStoring, "storing")
	if err := w.store.Save(job.Filename, items); err != nil {
		log.Error("save failed", "error", err)
		job.AddError(fmt.Sprintf("save: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	if hadErrors || len(items) < targets.MinAcceptable {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
