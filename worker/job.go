package worker

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gofhir/rf2/model"
)

// Job is one bundle to import.
type Job struct {
	// ID identifies the job in results; usually the bundle's file name.
	ID string

	// Open returns the bundle stream. The worker closes it.
	Open func() (io.ReadCloser, error)

	// Translation owns the imported content.
	Translation *model.Translation
}

// FileJob returns a job reading the bundle at path.
func FileJob(path string, t *model.Translation) Job {
	return Job{
		ID: path,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
		Translation: t,
	}
}

// BytesJob returns a job reading an in-memory bundle.
func BytesJob(id string, data []byte, t *model.Translation) Job {
	return Job{
		ID: id,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
		Translation: t,
	}
}

// JobResult represents the result of an import job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Concepts is the assembled graph; nil on error.
	Concepts []*model.Concept

	// Descriptions and Members count the graph's descriptions and language members.
	Descriptions int
	Members      int

	// Error contains any error that occurred during import.
	Error error

	// Duration is the time taken to import (in nanoseconds).
	Duration int64
}

// BatchResult aggregates results from multiple jobs.
type BatchResult struct {
	// Results holds one entry per submitted job, in submission order.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs that ran (including errors).
	CompletedJobs int

	// FailedJobs is the number of jobs that failed with an error.
	FailedJobs int

	// TotalDuration is the wall time of the batch (in nanoseconds).
	TotalDuration int64
}

// HasErrors returns true if any job failed.
func (br *BatchResult) HasErrors() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return true
		}
	}
	return false
}

// Err joins the errors of failed jobs, each prefixed with its job id.
func (br *BatchResult) Err() error {
	var errs []error
	for _, r := range br.Results {
		if r.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.ID, r.Error))
		}
	}
	return errors.Join(errs...)
}

// ConceptCount returns the number of concepts across all results.
func (br *BatchResult) ConceptCount() int {
	count := 0
	for _, r := range br.Results {
		count += len(r.Concepts)
	}
	return count
}
