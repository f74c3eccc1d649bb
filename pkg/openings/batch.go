package openings

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"chesskit/pkg/diagram"
	"chesskit/pkg/logger"
)

// Generator produces the diagram files for one opening
type Generator interface {
	Generate(ctx context.Context, name, fen string) (*diagram.Result, error)
}

// Report summarizes a batch run
type Report struct {
	// Generated lists the successful openings in input order
	Generated []string
	// Failed maps opening names to their error
	Failed map[string]error
	Total  int
}

// Succeeded returns the number of generated openings
func (r *Report) Succeeded() int {
	return len(r.Generated)
}

// ProgressFunc is called after each opening finishes
type ProgressFunc func(name string, err error)

// Batch runs a generator over a list of openings, isolating failures per entry
type Batch struct {
	generator  Generator
	workers    int
	logger     logger.Logger
	onProgress ProgressFunc
	mu         sync.Mutex
}

// NewBatch creates a batch with the given worker count; values below 1 run sequentially
func NewBatch(gen Generator, workers int, log logger.Logger) *Batch {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Batch{generator: gen, workers: workers, logger: log}
}

// OnProgress registers fn to be called after each opening. Calls are serialized.
func (b *Batch) OnProgress(fn ProgressFunc) {
	b.onProgress = fn
}

func (b *Batch) progress(name string, err error) {
	if b.onProgress == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onProgress(name, err)
}

// Run generates every opening in list. A failing entry is recorded in the
// report and does not stop the others. Cancelling ctx marks the remaining
// entries as failed with the context error.
func (b *Batch) Run(ctx context.Context, list []Opening) *Report {
	errs := make([]error, len(list))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, o := range list {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				b.progress(o.Name, err)
				return nil
			}

			_, err := b.generator.Generate(ctx, o.Name, o.FEN)
			if err != nil {
				b.logger.WithError(err).WarnWithFields("diagram failed", map[string]interface{}{
					"opening": o.Name,
				})
			}
			errs[i] = err
			b.progress(o.Name, err)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{
		Failed: make(map[string]error),
		Total:  len(list),
	}
	for i, o := range list {
		if errs[i] != nil {
			report.Failed[o.Name] = errs[i]
			continue
		}
		report.Generated = append(report.Generated, o.Name)
	}

	b.logger.InfoWithFields("batch finished", map[string]interface{}{
		"generated": report.Succeeded(),
		"failed":    len(report.Failed),
		"total":     report.Total,
	})
	return report
}

// Summary returns the "N/M diagrams generated" line
func (r *Report) Summary() string {
	return fmt.Sprintf("%d/%d diagrams generated", r.Succeeded(), r.Total)
}
