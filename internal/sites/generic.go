package sites

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/facultyscan/facultyscan/internal/model"
)

func init() {
	Register("generic", func() Parser { return &genericParser{seen: make(map[string]bool)} })
}

// genericParser handles any single-page directory listing: it scans the
// page for mailto anchors and pairs each with the nearest textual label.
// It never produces follow-up tasks, so it is safe to point at a site
// whose pagination scheme is unknown.
type genericParser struct {
	seen map[string]bool
}

// Name implements Parser.
func (p *genericParser) Name() string { return "generic" }

// Mode implements Parser.
func (p *genericParser) Mode() TraversalMode { return ListingInline }

// Extract implements Parser.
func (p *genericParser) Extract(task model.CrawlTask, doc *goquery.Document) ([]model.Contact, []model.CrawlTask) {
	return mailtoContacts(doc, task.URL, p.seen), nil
}
