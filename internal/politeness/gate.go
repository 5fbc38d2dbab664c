package politeness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// ErrDisallowed is returned when robots.txt explicitly forbids fetching
// a path. It is terminal for the affected URL: the caller must skip the
// URL, not retry it.
var ErrDisallowed = errors.New("robots.txt disallows fetching this path")

// maxRobotsBody caps how much of a robots.txt response we read.
// Real robots files are a few KB; anything bigger is garbage.
const maxRobotsBody = 512 * 1024

// Gate authorizes outbound fetches. It keeps one policy per host:
// the parsed robots.txt group for our user agent plus a rate limiter
// that enforces the minimum inter-request spacing.
//
// Policies live for the Gate's lifetime and are never persisted.
// A fresh Gate per run keeps runs isolated from each other.
type Gate struct {
	// client issues the robots.txt fetches. Its timeout bounds the
	// single fetch attempt per host.
	client *http.Client

	// userAgent identifies the crawler in the robots fetch and selects
	// the matching robots group.
	userAgent string

	// defaultDelay is the spacing applied when a host declares no
	// Crawl-delay. A declared Crawl-delay wins when it is longer.
	defaultDelay time.Duration

	logger *slog.Logger

	mu    sync.Mutex
	hosts map[string]*hostPolicy
}

// hostPolicy is the per-host crawl policy. Created on first sight of a
// host and mutated only by its limiter afterwards.
type hostPolicy struct {
	once sync.Once

	// group holds the robots rules for our user agent.
	// nil means allow-all (no robots.txt or unparseable).
	group *robotstxt.Group

	// limiter serializes requests to the host with the computed spacing.
	limiter *rate.Limiter

	// spacing is the effective minimum delay between requests.
	spacing time.Duration
}

// Option configures a Gate.
type Option func(*Gate)

// WithHTTPClient sets the HTTP client used for robots.txt fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gate) {
		g.client = client
	}
}

// WithDefaultDelay sets the spacing used when a host declares no Crawl-delay.
func WithDefaultDelay(d time.Duration) Option {
	return func(g *Gate) {
		g.defaultDelay = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate creates a Gate identifying itself with the given user agent.
func NewGate(userAgent string, opts ...Option) *Gate {
	g := &Gate{
		client:       &http.Client{Timeout: 10 * time.Second},
		userAgent:    userAgent,
		defaultDelay: time.Second,
		logger:       slog.Default(),
		hosts:        make(map[string]*hostPolicy),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize checks rawURL against the host's robots rules and reserves
// the next request slot. On success it returns the duration the caller
// must wait before issuing the fetch. On an explicit Disallow match it
// returns ErrDisallowed (wrapped with the path).
func (g *Gate) Authorize(ctx context.Context, rawURL string) (time.Duration, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("invalid URL: %w", err)
	}

	policy := g.policyFor(ctx, u)
	if err := testPath(policy, u); err != nil {
		return 0, err
	}

	// Reserve the next slot. Burst is 1, so the delay is however long
	// is left of the spacing window since the host's last request.
	reservation := policy.limiter.Reserve()
	return reservation.Delay(), nil
}

// Allowed checks robots rules only, without reserving a request slot.
// The CLI uses it to preflight seed URLs before the sink is opened, so
// a denied seed aborts the run with zero rows written.
func (g *Gate) Allowed(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	return testPath(g.policyFor(ctx, u), u)
}

// testPath applies the host's robots group to the URL's path and query.
func testPath(policy *hostPolicy, u *url.URL) error {
	if policy.group == nil {
		return nil
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	if !policy.group.Test(path) {
		return fmt.Errorf("%w: %s on host %s", ErrDisallowed, path, u.Host)
	}
	return nil
}

// policyFor returns the policy for the URL's host, creating and
// initializing it on first sight. Initialization (the robots fetch)
// happens outside the map lock so that distinct hosts do not block
// each other.
func (g *Gate) policyFor(ctx context.Context, u *url.URL) *hostPolicy {
	key := strings.ToLower(u.Host)

	g.mu.Lock()
	policy, ok := g.hosts[key]
	if !ok {
		policy = &hostPolicy{}
		g.hosts[key] = policy
	}
	g.mu.Unlock()

	policy.once.Do(func() {
		g.initPolicy(ctx, u, policy)
	})
	return policy
}

// initPolicy fetches and parses robots.txt for the host. One attempt:
// any failure falls back to allow-all with the default spacing.
func (g *Gate) initPolicy(ctx context.Context, u *url.URL, policy *hostPolicy) {
	policy.spacing = g.defaultDelay

	robotsURL := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}
	group := g.fetchGroup(ctx, robotsURL.String())
	if group != nil {
		policy.group = group
		if group.CrawlDelay > policy.spacing {
			policy.spacing = group.CrawlDelay
		}
	}

	if policy.spacing > 0 {
		policy.limiter = rate.NewLimiter(rate.Every(policy.spacing), 1)
	} else {
		policy.limiter = rate.NewLimiter(rate.Inf, 1)
	}

	g.logger.Debug("host policy initialized",
		"host", u.Host,
		"hasRobots", policy.group != nil,
		"spacing", policy.spacing,
	)
}

// fetchGroup retrieves and parses robots.txt, returning the group for
// our user agent, or nil when the file is absent or unreadable.
func (g *Gate) fetchGroup(ctx context.Context, robotsURL string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Debug("robots.txt fetch failed, allowing all", "url", robotsURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Debug("robots.txt not available, allowing all", "url", robotsURL, "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBody))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		g.logger.Debug("robots.txt unparseable, allowing all", "url", robotsURL, "error", err)
		return nil
	}
	return data.FindGroup(g.userAgent)
}
