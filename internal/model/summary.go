package model

import "time"

// RunSummary aggregates the user-visible outcome counts of a crawl or
// import run. It is what the report writers render.
type RunSummary struct {
	// Site is the site-variant key the run used, empty for imports.
	Site string `json:"site,omitempty"`

	// Seeds are the seed URLs the run started from.
	Seeds []string `json:"seeds,omitempty"`

	// Accepted is the number of new records written to the sink.
	Accepted int `json:"accepted"`

	// Duplicates is the number of candidates skipped because their
	// normalized email was already present.
	Duplicates int `json:"duplicates"`

	// Rejected is the number of candidates dropped for invalid addresses.
	Rejected int `json:"rejected"`

	// FailedTasks is the number of fetches abandoned after the retry budget.
	FailedTasks int `json:"failed_tasks"`

	// SkippedTasks is the number of non-seed URLs denied by robots policy.
	SkippedTasks int `json:"skipped_tasks"`

	// Pages is the number of pages fetched and parsed.
	Pages int `json:"pages"`

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`
}

// Merge folds another summary into this one. Used when several seeds run
// concurrently and each produces its own summary.
func (s *RunSummary) Merge(other RunSummary) {
	s.Seeds = append(s.Seeds, other.Seeds...)
	s.Accepted += other.Accepted
	s.Duplicates += other.Duplicates
	s.Rejected += other.Rejected
	s.FailedTasks += other.FailedTasks
	s.SkippedTasks += other.SkippedTasks
	s.Pages += other.Pages
	if other.Elapsed > s.Elapsed {
		s.Elapsed = other.Elapsed
	}
}
