package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/facultyscan/facultyscan/internal/model"
	"github.com/facultyscan/facultyscan/internal/politeness"
	"github.com/facultyscan/facultyscan/internal/sites"
	"github.com/facultyscan/facultyscan/internal/store"
)

// ErrSeedDenied is returned when robots rules forbid fetching the seed
// URL itself. Unlike a denied follow-up, a denied seed fails the whole
// run: there is nothing to crawl.
var ErrSeedDenied = errors.New("seed URL denied by robots rules")

const (
	// defaultMaxPages bounds how many listing pages one seed may visit.
	defaultMaxPages = 40

	// defaultMaxTasks bounds the total tasks per seed, listing and
	// profile alike. It guarantees termination even when a variant
	// keeps producing follow-ups.
	defaultMaxTasks = 500
)

// Orchestrator runs the crawl for a single seed: it owns the frontier,
// asks the gate before every fetch, hands pages to the site variant,
// and submits extracted candidates to the sink.
//
// An Orchestrator is single-use because its parser carries run-scoped
// state. The gate and sink behind it may be shared across orchestrators.
type Orchestrator struct {
	gate    *politeness.Gate
	fetcher *Fetcher
	parser  sites.Parser
	sink    store.Store
	logger  *slog.Logger

	// affiliation and subject are stamped onto every candidate; variants
	// only supply name, email, and source URL.
	affiliation string
	subject     string

	maxPages int
	maxTasks int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAffiliation sets the affiliation recorded on every contact.
func WithAffiliation(affiliation string) Option {
	return func(o *Orchestrator) {
		o.affiliation = affiliation
	}
}

// WithSubject sets the subject tag recorded on every contact.
func WithSubject(subject string) Option {
	return func(o *Orchestrator) {
		o.subject = subject
	}
}

// WithMaxPages sets the listing-page ceiling per seed.
func WithMaxPages(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxPages = n
		}
	}
}

// WithMaxTasks sets the total task ceiling per seed.
func WithMaxTasks(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxTasks = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an Orchestrator over the given collaborators.
func New(gate *politeness.Gate, fetcher *Fetcher, parser sites.Parser, sink store.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gate:     gate,
		fetcher:  fetcher,
		parser:   parser,
		sink:     sink,
		logger:   slog.Default(),
		maxPages: defaultMaxPages,
		maxTasks: defaultMaxTasks,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run crawls breadth-first from seedURL until the frontier drains or a
// ceiling is reached. Individual task failures are counted, logged, and
// skipped; only a denied seed, a sink write failure, or context
// cancellation abort the run.
func (o *Orchestrator) Run(ctx context.Context, seedURL string) (summary model.RunSummary, err error) {
	start := time.Now()
	summary = model.RunSummary{
		Site:  o.parser.Name(),
		Seeds: []string{seedURL},
	}
	defer func() {
		summary.Elapsed = time.Since(start)
	}()

	o.logger.Info("starting crawl",
		"seed", seedURL,
		"site", o.parser.Name(),
		"mode", o.parser.Mode().String(),
	)

	frontier := []model.CrawlTask{{URL: seedURL, Kind: model.TaskListing}}
	processed := 0

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if processed >= o.maxTasks {
			o.logger.Warn("task ceiling reached, stopping run", "seed", seedURL, "limit", o.maxTasks)
			break
		}

		task := frontier[0]
		frontier = frontier[1:]
		processed++

		wait, err := o.gate.Authorize(ctx, task.URL)
		if err != nil {
			if errors.Is(err, politeness.ErrDisallowed) {
				if processed == 1 {
					return summary, fmt.Errorf("%w: %v", ErrSeedDenied, err)
				}
				o.logger.Info("skipping disallowed URL", "url", task.URL)
				summary.SkippedTasks++
				continue
			}
			o.logger.Warn("dropping unusable task", "url", task.URL, "error", err)
			summary.FailedTasks++
			continue
		}
		if wait > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := o.fetcher.Fetch(ctx, task.URL)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			o.logger.Warn("abandoning task", "url", task.URL, "kind", task.Kind.String(), "error", err)
			summary.FailedTasks++
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			o.logger.Warn("failed to parse page", "url", task.URL, "error", err)
			summary.FailedTasks++
			continue
		}
		summary.Pages++

		candidates, followUps := o.parser.Extract(task, doc)
		o.logger.Debug("page processed",
			"url", task.URL,
			"kind", task.Kind.String(),
			"candidates", len(candidates),
			"followUps", len(followUps),
		)

		for _, candidate := range candidates {
			candidate.Affiliation = o.affiliation
			candidate.Subject = o.subject

			status, err := o.sink.Submit(ctx, candidate)
			if err != nil {
				return summary, fmt.Errorf("aborting run, sink unusable: %w", err)
			}
			switch status {
			case store.Accepted:
				summary.Accepted++
				o.logger.Info("contact recorded", "name", candidate.Name, "email", candidate.Email)
			case store.Duplicate:
				summary.Duplicates++
			case store.Rejected:
				summary.Rejected++
			}
		}

		for _, followUp := range followUps {
			if task.Kind == model.TaskProfile {
				// Profile pages are terminal no matter what a variant returns.
				continue
			}
			if followUp.Kind == model.TaskListing && followUp.Depth >= o.maxPages {
				o.logger.Info("page ceiling reached, not following pagination",
					"url", followUp.URL, "limit", o.maxPages)
				continue
			}
			frontier = append(frontier, followUp)
		}
	}

	o.logger.Info("crawl finished",
		"seed", seedURL,
		"pages", summary.Pages,
		"accepted", summary.Accepted,
		"duplicates", summary.Duplicates,
		"rejected", summary.Rejected,
	)
	return summary, nil
}
