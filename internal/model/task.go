package model

// TaskKind distinguishes the two page shapes the crawler understands.
type TaskKind int

const (
	// TaskListing is a directory page enumerating multiple entries.
	// Listing tasks may spawn further listing tasks (pagination) and
	// profile tasks (per-entry links).
	TaskListing TaskKind = iota

	// TaskProfile is a single-entry detail page reached from a listing.
	// Profile tasks are terminal: they never spawn follow-up tasks.
	TaskProfile
)

// String returns a short label for logging.
func (k TaskKind) String() string {
	switch k {
	case TaskListing:
		return "listing"
	case TaskProfile:
		return "profile"
	default:
		return "unknown"
	}
}

// CrawlTask is one pending fetch in the frontier.
// Tasks are created by seeding or by a site parser's follow-up URLs and
// destroyed once processed.
type CrawlTask struct {
	// URL is the absolute page URL to fetch.
	URL string

	// Kind is the page shape, which decides what the parser may spawn.
	Kind TaskKind

	// Depth counts pagination hops from the seed. The seed is depth 0,
	// the next listing page is depth 1, and so on. Profile tasks inherit
	// the depth of the listing they were found on.
	Depth int
}
