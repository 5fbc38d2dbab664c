// Package crawler walks directory sites and feeds extracted contact
// candidates into a sink. The orchestrator owns the frontier and the
// run bookkeeping; fetching is delegated to a Fetcher and page
// semantics to the site variant's parser.
//
// Two ceilings bound every run: a pagination ceiling on listing pages
// and a global task ceiling that holds even when a variant misbehaves.
package crawler
