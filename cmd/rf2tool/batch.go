package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/worker"
)

type jobReport struct {
	Bundle       string `json:"bundle" yaml:"bundle"`
	Concepts     int    `json:"concepts" yaml:"concepts"`
	Descriptions int    `json:"descriptions" yaml:"descriptions"`
	Members      int    `json:"members" yaml:"members"`
	DurationMs   int64  `json:"durationMs" yaml:"duration_ms"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}

type batchReport struct {
	Workers   int          `json:"workers" yaml:"workers"`
	Jobs      []jobReport  `json:"jobs" yaml:"jobs"`
	Completed int          `json:"completed" yaml:"completed"`
	Failed    int          `json:"failed" yaml:"failed"`
	Concepts  int          `json:"concepts" yaml:"concepts"`
	Metrics   rf2.Snapshot `json:"metrics" yaml:"metrics"`
}

func (r *batchReport) renderText(w io.Writer) {
	printRows(w, [][2]string{
		{"Workers:", fmt.Sprint(r.Workers)},
		{"Jobs:", fmt.Sprintf("%d completed, %d failed", r.Completed, r.Failed)},
		{"Concepts:", fmt.Sprint(r.Concepts)},
		{"Rows read:", fmt.Sprint(r.Metrics.RowsRead)},
	})
	for _, j := range r.Jobs {
		if j.Error != "" {
			fmt.Fprintf(w, "  FAIL %s: %s\n", j.Bundle, j.Error)
			continue
		}
		fmt.Fprintf(w, "  ok   %s: %d concepts, %d descriptions, %d members (%dms)\n",
			j.Bundle, j.Concepts, j.Descriptions, j.Members, j.DurationMs)
	}
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		flags   translationFlags
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch <bundle>...",
		Short: "Import several translation bundles in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.translationHandler(flags.handler)
			if err != nil {
				return err
			}

			if workers <= 0 {
				workers = a.cfg.Workers
			}
			bi := worker.NewBatchImporter(h, workers)

			jobs := make([]worker.Job, len(args))
			for i, path := range args {
				jobs[i] = worker.FileJob(path, flags.translation(a))
			}
			br := bi.ImportBatch(cmd.Context(), jobs)

			report := &batchReport{
				Workers:   bi.Workers(),
				Completed: br.CompletedJobs,
				Failed:    br.FailedJobs,
				Concepts:  br.ConceptCount(),
				Metrics:   a.metrics.Snapshot(),
			}
			for _, res := range br.Results {
				jr := jobReport{
					Bundle:       res.ID,
					Concepts:     len(res.Concepts),
					Descriptions: res.Descriptions,
					Members:      res.Members,
					DurationMs:   time.Duration(res.Duration).Milliseconds(),
				}
				if res.Error != nil {
					jr.Error = res.Error.Error()
				}
				report.Jobs = append(report.Jobs, jr)
			}

			if err := a.render(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			return br.Err()
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel imports (default: config workers, then one per CPU)")
	return cmd
}
