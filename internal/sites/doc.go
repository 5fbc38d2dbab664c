// Package sites holds the per-site extraction strategies.
//
// Each supported directory website gets one Parser variant that converts
// a fetched page into contact candidates and follow-up crawl tasks.
// Variants register themselves by key in an init function; the crawler
// looks them up by the key supplied on the command line. Adding a site
// means adding a variant file here, never touching the orchestrator.
//
// # Traversal modes
//
// A variant declares one of two shapes:
//
//   - ListingInline: candidates are read directly off the listing page
//     from mailto anchors; pagination advances a page-number query
//     parameter until a page yields nothing new.
//   - ListingToProfile: the listing yields one profile task per entry;
//     each profile page yields at most one candidate and nothing else.
//
// Design decision: We parse with goquery rather than walking
// golang.org/x/net/html nodes by hand. The variants are selector-driven
// (name cells, heading classes, mailto anchors), and CSS selectors keep
// each variant close to a description of the site's markup.
package sites
