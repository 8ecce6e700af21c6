package worker

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/gofhir/rf2/model"
)

// Importer is the interface the batch importer uses to import one bundle.
type Importer interface {
	ImportConcepts(ctx context.Context, r io.Reader, t *model.Translation) ([]*model.Concept, error)
}

// ErrNoImporter is returned when the batch importer has no importer configured.
var ErrNoImporter = errors.New("no importer configured")

// ErrNoSource is returned for a job without an Open function.
var ErrNoSource = errors.New("job has no source")

// BatchImporter imports independent bundles on a fixed number of goroutines.
type BatchImporter struct {
	importer Importer
	workers  int
}

// NewBatchImporter creates a new batch importer.
// If workers <= 0, it defaults to runtime.NumCPU().
func NewBatchImporter(importer Importer, workers int) *BatchImporter {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchImporter{
		importer: importer,
		workers:  workers,
	}
}

// Workers returns the number of goroutines used for large batches.
func (bi *BatchImporter) Workers() int {
	return bi.workers
}

// ImportBatch imports every job and returns one result per job, in order.
// Jobs not started before ctx is cancelled fail with ctx's error.
func (bi *BatchImporter) ImportBatch(ctx context.Context, jobs []Job) *BatchResult {
	start := time.Now()

	var br *BatchResult
	switch {
	case len(jobs) == 0:
		br = &BatchResult{Results: make([]*JobResult, 0)}
	case len(jobs) <= 2:
		// For small batches, don't use parallelism
		br = bi.importSequential(ctx, jobs)
	default:
		br = bi.importParallel(ctx, jobs)
	}

	br.TotalDuration = time.Since(start).Nanoseconds()
	return br
}

func (bi *BatchImporter) importSequential(ctx context.Context, jobs []Job) *BatchResult {
	results := make([]*JobResult, len(jobs))
	for i, job := range jobs {
		results[i] = bi.run(ctx, job)
	}
	return summarize(results)
}

func (bi *BatchImporter) importParallel(ctx context.Context, jobs []Job) *BatchResult {
	numWorkers := bi.workers
	if numWorkers > len(jobs) {
		numWorkers = len(jobs)
	}

	indexes := make(chan int, len(jobs))
	for i := range jobs {
		indexes <- i
	}
	close(indexes)

	// Each worker writes only its own slots
	results := make([]*JobResult, len(jobs))

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = bi.run(ctx, jobs[i])
			}
		}()
	}
	wg.Wait()

	return summarize(results)
}

// run imports one job. It never returns nil.
func (bi *BatchImporter) run(ctx context.Context, job Job) *JobResult {
	start := time.Now()
	result := &JobResult{ID: job.ID}
	defer func() {
		result.Duration = time.Since(start).Nanoseconds()
	}()

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}
	if bi.importer == nil {
		result.Error = ErrNoImporter
		return result
	}
	if job.Open == nil {
		result.Error = ErrNoSource
		return result
	}

	rc, err := job.Open()
	if err != nil {
		result.Error = err
		return result
	}
	defer rc.Close()

	concepts, err := bi.importer.ImportConcepts(ctx, rc, job.Translation)
	if err != nil {
		result.Error = err
		return result
	}

	result.Concepts = concepts
	result.Descriptions, result.Members = model.Count(concepts)
	return result
}

func summarize(results []*JobResult) *BatchResult {
	br := &BatchResult{
		Results:   results,
		TotalJobs: len(results),
	}
	for _, r := range results {
		if errors.Is(r.Error, context.Canceled) || errors.Is(r.Error, context.DeadlineExceeded) {
			continue
		}
		br.CompletedJobs++
		if r.Error != nil {
			br.FailedJobs++
		}
	}
	return br
}

// ImportBatchSimple is a convenience function for batch import.
func ImportBatchSimple(ctx context.Context, importer Importer, jobs []Job) *BatchResult {
	bi := NewBatchImporter(importer, runtime.NumCPU())
	return bi.ImportBatch(ctx, jobs)
}
