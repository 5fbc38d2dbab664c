package crawler

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/facultyscan/facultyscan/internal/model"
)

// RunBatch crawls several seeds concurrently, at most concurrency at a
// time, and merges their summaries. Each seed gets its own orchestrator
// from build so that parser state stays run-scoped; the gate and sink
// behind the orchestrators are shared and safe for concurrent use.
//
// The first seed-level error cancels the remaining seeds and is
// returned alongside whatever summary had accumulated by then.
func RunBatch(ctx context.Context, seeds []string, concurrency int, build func() (*Orchestrator, error)) (model.RunSummary, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	var (
		mu    sync.Mutex
		total model.RunSummary
	)

	for _, seed := range seeds {
		seed := seed
		group.Go(func() error {
			o, err := build()
			if err != nil {
				return err
			}
			summary, err := o.Run(ctx, seed)

			mu.Lock()
			if total.Site == "" {
				total.Site = summary.Site
			}
			total.Merge(summary)
			mu.Unlock()
			return err
		})
	}

	err := group.Wait()
	return total, err
}
