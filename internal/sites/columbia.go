package sites

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/facultyscan/facultyscan/internal/model"
)

func init() {
	Register("columbia", func() Parser { return &columbiaParser{seen: make(map[string]bool)} })
}

// columbiaParser handles the Columbia Law faculty directory: a paginated
// listing with mailto links inline on each page, advanced through a
// "page" query parameter starting at 0.
//
// Pagination cutoff: a page that contributes no address we have not seen
// this run ends the traversal. The orchestrator additionally enforces the
// configured page ceiling.
type columbiaParser struct {
	seen map[string]bool
}

// Name implements Parser.
func (p *columbiaParser) Name() string { return "columbia" }

// Mode implements Parser.
func (p *columbiaParser) Mode() TraversalMode { return ListingInline }

// Extract implements Parser.
func (p *columbiaParser) Extract(task model.CrawlTask, doc *goquery.Document) ([]model.Contact, []model.CrawlTask) {
	contacts := mailtoContacts(doc, task.URL, p.seen)
	if task.Kind != model.TaskListing || len(contacts) == 0 {
		return contacts, nil
	}
	return contacts, []model.CrawlTask{nextListingTask(task)}
}
