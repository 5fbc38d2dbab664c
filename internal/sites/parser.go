package sites

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/facultyscan/facultyscan/internal/model"
)

// ErrUnknownSite is returned when no parser is registered for a site key.
var ErrUnknownSite = errors.New("unknown site")

// TraversalMode describes how a site variant walks the directory.
type TraversalMode int

const (
	// ListingInline reads candidates directly off listing pages and
	// follows pagination.
	ListingInline TraversalMode = iota

	// ListingToProfile follows per-entry links; candidates come from
	// the profile pages.
	ListingToProfile
)

// String returns a short label for logging.
func (m TraversalMode) String() string {
	switch m {
	case ListingInline:
		return "listing-inline"
	case ListingToProfile:
		return "listing-to-profile"
	default:
		return "unknown"
	}
}

// Parser extracts contact candidates and follow-up tasks from one page.
//
// Implementations carry run-scoped state (the set of emails already seen
// this run, used for pagination cutoff), so a Parser instance must not be
// shared between runs. New obtains a fresh instance.
//
// Candidates carry name, email, and source URL only; affiliation and
// subject are injected by the orchestrator from configuration.
type Parser interface {
	// Name returns the registry key of the variant.
	Name() string

	// Mode returns the variant's traversal mode.
	Mode() TraversalMode

	// Extract converts a fetched page into zero or more candidates and
	// zero or more follow-up tasks. Profile tasks never produce
	// follow-ups. Candidates without an email are dropped silently
	// inside the variant, never surfaced as errors.
	Extract(task model.CrawlTask, doc *goquery.Document) ([]model.Contact, []model.CrawlTask)
}

// registry maps site keys to parser factories. Factories rather than
// instances because parsers hold run-scoped dedup state.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Parser)
)

// Register adds a parser factory under the given key.
// Called from variant init functions; panics on a duplicate key because
// that is a programming error, not a runtime condition.
func Register(name string, factory func() Parser) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("sites: duplicate parser registration for %q", name))
	}
	registry[name] = factory
}

// New returns a fresh parser instance for the given site key.
func New(name string) (Parser, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (known sites: %v)", ErrUnknownSite, name, Names())
	}
	return factory(), nil
}

// Names returns the registered site keys in sorted order, for CLI help
// and error messages.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
