package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/labelflat/internal/schema"
)

// DefaultBatchLimit bounds concurrent conversions in ConvertAll.
const DefaultBatchLimit = 4

// Job is one document to convert.
type Job struct {
	Fragments []string
	Info      schema.RunInfo
}

// Outcome pairs a job's result with its conversion error.
type Outcome struct {
	Result Result
	Err    error
}

// ConvertAll converts jobs concurrently, at most limit at a time, and returns
// one outcome per job in input order. Conversion errors stay in their
// outcome; the returned error is non-nil only when ctx is cancelled before
// every job ran.
func ConvertAll(ctx context.Context, jobs []Job, limit int) ([]Outcome, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	out := make([]Outcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Convert(job.Fragments, job.Info)
			out[i] = Outcome{Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
