// Package politeness enforces crawling policy before any page fetch.
//
// # Responsibilities
//
//   - Fetch and cache /robots.txt once per host
//   - Deny URLs matched by an explicit Disallow rule
//   - Compute the minimum inter-request spacing per host, honoring a
//     Crawl-delay directive when present
//
// # Failure semantics
//
// A missing or unfetchable robots.txt is an implicit allow: the crawler
// proceeds with the default spacing and no restrictions. An explicit
// Disallow match is terminal for that URL; callers must skip it rather
// than retry.
//
// Design decision: We treat any non-200 robots.txt response as
// allow-all rather than adopting the "5xx means disallow" reading.
// Directory sites occasionally return transient errors for robots.txt,
// and the original tool treated unavailability as allow.
package politeness
