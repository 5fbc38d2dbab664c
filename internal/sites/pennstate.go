package sites

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/facultyscan/facultyscan/internal/model"
)

func init() {
	Register("pennstate", func() Parser { return &pennstateParser{seen: make(map[string]bool)} })
}

// pennstateEndPage bounds pagination. The directory interleaves sparse
// pages, so traversal runs to a fixed end page instead of stopping on
// the first page that yields no new addresses.
const pennstateEndPage = 20

// pennstateParser handles the Penn State Law directory: a paginated
// listing of ".directory-item" blocks with mailto links inside, advanced
// through a "page" query parameter up to a fixed end page.
type pennstateParser struct {
	seen map[string]bool
}

// Name implements Parser.
func (p *pennstateParser) Name() string { return "pennstate" }

// Mode implements Parser.
func (p *pennstateParser) Mode() TraversalMode { return ListingInline }

// Extract implements Parser.
func (p *pennstateParser) Extract(task model.CrawlTask, doc *goquery.Document) ([]model.Contact, []model.CrawlTask) {
	var contacts []model.Contact

	doc.Find(".directory-item a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		email := EmailFromMailto(href)
		if email == "" || !model.ValidEmail(email) {
			return
		}
		key := model.NormalizeEmail(email)
		if p.seen[key] {
			return
		}
		p.seen[key] = true
		contacts = append(contacts, model.Contact{
			Name:      nearestName(anchor),
			Email:     email,
			SourceURL: task.URL,
		})
	})

	if task.Kind != model.TaskListing || pageOf(task.URL) >= pennstateEndPage {
		return contacts, nil
	}
	return contacts, []model.CrawlTask{nextListingTask(task)}
}
