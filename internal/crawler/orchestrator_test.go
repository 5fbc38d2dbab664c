package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/facultyscan/facultyscan/internal/model"
	"github.com/facultyscan/facultyscan/internal/politeness"
	"github.com/facultyscan/facultyscan/internal/sites"
	"github.com/facultyscan/facultyscan/internal/store"
)

// scriptPage is what a scripted parser returns for one URL.
type scriptPage struct {
	contacts  []model.Contact
	followUps []model.CrawlTask
}

// scriptParser returns canned extraction results per URL, standing in
// for a real site variant so orchestration can be tested without HTML
// fixtures.
type scriptParser struct {
	pages map[string]scriptPage
}

func (p *scriptParser) Name() string              { return "script" }
func (p *scriptParser) Mode() sites.TraversalMode { return sites.ListingInline }

func (p *scriptParser) Extract(task model.CrawlTask, _ *goquery.Document) ([]model.Contact, []model.CrawlTask) {
	page := p.pages[task.URL]
	return page.contacts, page.followUps
}

// memorySink is an in-memory store.Store with the same dedup and
// validation semantics as the real sinks.
type memorySink struct {
	mu       sync.Mutex
	seen     map[string]bool
	contacts []model.Contact
	failWith error
}

func newMemorySink() *memorySink {
	return &memorySink{seen: make(map[string]bool)}
}

func (m *memorySink) Submit(_ context.Context, c model.Contact) (store.Status, error) {
	if m.failWith != nil {
		return store.Rejected, m.failWith
	}
	if !model.ValidEmail(c.Email) {
		return store.Rejected, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[c.Key()] {
		return store.Duplicate, nil
	}
	m.seen[c.Key()] = true
	m.contacts = append(m.contacts, c)
	return store.Accepted, nil
}

func (m *memorySink) Close() error { return nil }

// newCrawlServer serves a robots.txt that disallows /private and a
// trivial HTML page everywhere else, except /boom which always fails.
func newCrawlServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var boomHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	})
	mux.HandleFunc("/boom", func(w http.ResponseWriter, _ *http.Request) {
		boomHits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>directory page</body></html>"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &boomHits
}

func newTestOrchestrator(parser sites.Parser, sink store.Store, opts ...Option) *Orchestrator {
	gate := politeness.NewGate("test-agent", politeness.WithDefaultDelay(0))
	fetcher := NewFetcher("test-agent", WithRetry(2, time.Millisecond))
	return New(gate, fetcher, parser, sink, opts...)
}

// TestOrchestratorRun tests frontier traversal, counting, and ceilings.
func TestOrchestratorRun(t *testing.T) {
	t.Parallel()

	t.Run("inline listing with pagination", func(t *testing.T) {
		t.Parallel()

		server, _ := newCrawlServer(t)
		p0 := server.URL + "/faculty"
		p1 := server.URL + "/faculty?page=1"
		p2 := server.URL + "/faculty?page=2"

		parser := &scriptParser{pages: map[string]scriptPage{
			p0: {
				contacts: []model.Contact{
					{Name: "A One", Email: "a@x.edu", SourceURL: p0},
					{Name: "B Two", Email: "b@x.edu", SourceURL: p0},
				},
				followUps: []model.CrawlTask{{URL: p1, Kind: model.TaskListing, Depth: 1}},
			},
			p1: {
				contacts: []model.Contact{
					{Name: "B Again", Email: "B@X.edu", SourceURL: p1},
					{Name: "C Three", Email: "c@x.edu", SourceURL: p1},
					{Name: "Redacted", Email: "c (at) x (dot) edu", SourceURL: p1},
				},
				followUps: []model.CrawlTask{{URL: p2, Kind: model.TaskListing, Depth: 2}},
			},
			p2: {},
		}}

		sink := newMemorySink()
		o := newTestOrchestrator(parser, sink,
			WithAffiliation("X Law"),
			WithSubject("torts"),
		)

		summary, err := o.Run(context.Background(), p0)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if summary.Pages != 3 {
			t.Errorf("pages = %d, want 3", summary.Pages)
		}
		if summary.Accepted != 3 || summary.Duplicates != 1 || summary.Rejected != 1 {
			t.Errorf("counts = %d/%d/%d, want 3 accepted, 1 duplicate, 1 rejected",
				summary.Accepted, summary.Duplicates, summary.Rejected)
		}
		if summary.FailedTasks != 0 || summary.SkippedTasks != 0 {
			t.Errorf("unexpected failures: %+v", summary)
		}
		for _, c := range sink.contacts {
			if c.Affiliation != "X Law" || c.Subject != "torts" {
				t.Errorf("run metadata not stamped on %+v", c)
			}
		}
	})

	t.Run("denied seed fails the run with nothing written", func(t *testing.T) {
		t.Parallel()

		server, _ := newCrawlServer(t)
		seed := server.URL + "/private/faculty"

		sink := newMemorySink()
		o := newTestOrchestrator(&scriptParser{}, sink)

		summary, err := o.Run(context.Background(), seed)
		if !errors.Is(err, ErrSeedDenied) {
			t.Fatalf("expected ErrSeedDenied, got %v", err)
		}
		if summary.Pages != 0 || len(sink.contacts) != 0 {
			t.Errorf("denied seed still produced work: %+v", summary)
		}
	})

	t.Run("denied follow-up is skipped, not fatal", func(t *testing.T) {
		t.Parallel()

		server, _ := newCrawlServer(t)
		seed := server.URL + "/faculty"

		parser := &scriptParser{pages: map[string]scriptPage{
			seed: {
				contacts: []model.Contact{{Name: "A One", Email: "a@x.edu", SourceURL: seed}},
				followUps: []model.CrawlTask{
					{URL: server.URL + "/private/hidden", Kind: model.TaskProfile},
				},
			},
		}}

		sink := newMemorySink()
		summary, err := newTestOrchestrator(parser, sink).Run(context.Background(), seed)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if summary.SkippedTasks != 1 {
			t.Errorf("skipped = %d, want 1", summary.SkippedTasks)
		}
		if summary.Accepted != 1 {
			t.Errorf("accepted = %d, want 1", summary.Accepted)
		}
	})

	t.Run("fetch failure abandons the task and continues", func(t *testing.T) {
		t.Parallel()

		server, boomHits := newCrawlServer(t)
		seed := server.URL + "/faculty"

		parser := &scriptParser{pages: map[string]scriptPage{
			seed: {
				contacts: []model.Contact{{Name: "A One", Email: "a@x.edu", SourceURL: seed}},
				followUps: []model.CrawlTask{
					{URL: server.URL + "/boom", Kind: model.TaskProfile},
					{URL: server.URL + "/other", Kind: model.TaskProfile},
				},
			},
			server.URL + "/other": {
				contacts: []model.Contact{{Name: "B Two", Email: "b@x.edu"}},
			},
		}}

		sink := newMemorySink()
		summary, err := newTestOrchestrator(parser, sink).Run(context.Background(), seed)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if summary.FailedTasks != 1 {
			t.Errorf("failed tasks = %d, want 1", summary.FailedTasks)
		}
		if summary.Accepted != 2 {
			t.Errorf("accepted = %d, want 2 (run must outlive one bad page)", summary.Accepted)
		}
		if got := boomHits.Load(); got != 2 {
			t.Errorf("failing page hits = %d, want 2 (full retry budget)", got)
		}
	})

	t.Run("task ceiling halts a runaway variant", func(t *testing.T) {
		t.Parallel()

		server, _ := newCrawlServer(t)
		seed := server.URL + "/loop"

		// The variant keeps re-emitting its own URL forever.
		parser := &scriptParser{pages: map[string]scriptPage{
			seed: {followUps: []model.CrawlTask{{URL: seed, Kind: model.TaskListing}}},
		}}

		summary, err := newTestOrchestrator(parser, newMemorySink(), WithMaxTasks(5)).
			Run(context.Background(), seed)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if summary.Pages != 5 {
			t.Errorf("pages = %d, want exactly the task ceiling", summary.Pages)
		}
	})

	t.Run("page ceiling stops pagination", func(t *testing.T) {
		t.Parallel()

		server, _ := newCrawlServer(t)
		pages := make(map[string]scriptPage)
		first := server.URL + "/faculty?page=0"
		for i := 0; i < 10; i++ {
			url := server.URL + "/faculty?page=" + strconv.Itoa(i)
			next := server.URL + "/faculty?page=" + strconv.Itoa(i+1)
			pages[url] = scriptPage{
				followUps: []model.CrawlTask{{URL: next, Kind: model.TaskListing, Depth: i + 1}},
			}
		}

		summary, err := newTestOrchestrator(&scriptParser{pages: pages}, newMemorySink(), WithMaxPages(2)).
			Run(context.Background(), first)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if summary.Pages != 2 {
			t.Errorf("listing pages = %d, want 2", summary.Pages)
		}
	})

	t.Run("profile pages never spawn follow-ups", func(t *testing.T) {
		t.Parallel()

		server, _ := newCrawlServer(t)
		seed := server.URL + "/faculty"
		profile := server.URL + "/faculty/jane-doe"

		parser := &scriptParser{pages: map[string]scriptPage{
			seed: {followUps: []model.CrawlTask{{URL: profile, Kind: model.TaskProfile}}},
			profile: {
				contacts: []model.Contact{{Name: "Jane Doe", Email: "jane@x.edu", SourceURL: profile}},
				// A misbehaving variant emitting a follow-up from a
				// profile page must be ignored.
				followUps: []model.CrawlTask{{URL: server.URL + "/faculty/evil", Kind: model.TaskProfile}},
			},
		}}

		summary, err := newTestOrchestrator(parser, newMemorySink()).Run(context.Background(), seed)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if summary.Pages != 2 {
			t.Errorf("pages = %d, want 2", summary.Pages)
		}
		if summary.Accepted != 1 {
			t.Errorf("accepted = %d, want 1", summary.Accepted)
		}
	})

	t.Run("sink failure aborts the run", func(t *testing.T) {
		t.Parallel()

		server, _ := newCrawlServer(t)
		seed := server.URL + "/faculty"

		parser := &scriptParser{pages: map[string]scriptPage{
			seed: {contacts: []model.Contact{{Name: "A One", Email: "a@x.edu"}}},
		}}

		sink := newMemorySink()
		sink.failWith = errors.New("disk full")

		if _, err := newTestOrchestrator(parser, sink).Run(context.Background(), seed); err == nil {
			t.Fatal("expected run to abort on sink failure")
		}
	})
}

// TestRunBatch tests concurrent multi-seed runs.
func TestRunBatch(t *testing.T) {
	t.Parallel()

	t.Run("merges seed summaries", func(t *testing.T) {
		t.Parallel()

		server, _ := newCrawlServer(t)
		seedA := server.URL + "/faculty/a"
		seedB := server.URL + "/faculty/b"

		pages := map[string]scriptPage{
			seedA: {contacts: []model.Contact{{Name: "A One", Email: "a@x.edu"}}},
			seedB: {contacts: []model.Contact{{Name: "B Two", Email: "b@x.edu"}}},
		}

		gate := politeness.NewGate("test-agent", politeness.WithDefaultDelay(0))
		fetcher := NewFetcher("test-agent", WithRetry(2, time.Millisecond))
		sink := newMemorySink()

		total, err := RunBatch(context.Background(), []string{seedA, seedB}, 2, func() (*Orchestrator, error) {
			return New(gate, fetcher, &scriptParser{pages: pages}, sink), nil
		})
		if err != nil {
			t.Fatalf("RunBatch failed: %v", err)
		}
		if total.Pages != 2 || total.Accepted != 2 {
			t.Errorf("merged summary = %+v, want 2 pages and 2 accepted", total)
		}
		if len(total.Seeds) != 2 {
			t.Errorf("seeds = %v, want both", total.Seeds)
		}
	})

	t.Run("denied seed fails the batch", func(t *testing.T) {
		t.Parallel()

		server, _ := newCrawlServer(t)
		good := server.URL + "/faculty"
		bad := server.URL + "/private/faculty"

		gate := politeness.NewGate("test-agent", politeness.WithDefaultDelay(0))
		fetcher := NewFetcher("test-agent", WithRetry(2, time.Millisecond))
		sink := newMemorySink()
		pages := map[string]scriptPage{
			good: {contacts: []model.Contact{{Name: "A One", Email: "a@x.edu"}}},
		}

		_, err := RunBatch(context.Background(), []string{good, bad}, 2, func() (*Orchestrator, error) {
			return New(gate, fetcher, &scriptParser{pages: pages}, sink), nil
		})
		if !errors.Is(err, ErrSeedDenied) {
			t.Fatalf("expected ErrSeedDenied from batch, got %v", err)
		}
	})
}
