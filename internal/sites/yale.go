package sites

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/facultyscan/facultyscan/internal/model"
)

func init() {
	Register("yale", func() Parser { return &yaleParser{seen: make(map[string]bool)} })
}

// emailTextRegex finds addresses written as plain text rather than
// mailto links. Yale's directory renders some addresses this way inside
// field blocks.
var emailTextRegex = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// yaleParser handles the Yale Law faculty directory: a paginated listing
// where addresses appear both as mailto anchors and as plain text inside
// ".field__item" blocks.
type yaleParser struct {
	seen map[string]bool
}

// Name implements Parser.
func (p *yaleParser) Name() string { return "yale" }

// Mode implements Parser.
func (p *yaleParser) Mode() TraversalMode { return ListingInline }

// Extract implements Parser.
func (p *yaleParser) Extract(task model.CrawlTask, doc *goquery.Document) ([]model.Contact, []model.CrawlTask) {
	contacts := mailtoContacts(doc, task.URL, p.seen)

	// Plain-text addresses inside field blocks, attributed to the
	// nearest heading above the block.
	doc.Find(".field__item").Each(func(_ int, block *goquery.Selection) {
		for _, email := range emailTextRegex.FindAllString(block.Text(), -1) {
			if !model.ValidEmail(email) {
				continue
			}
			key := model.NormalizeEmail(email)
			if p.seen[key] {
				continue
			}
			p.seen[key] = true
			contacts = append(contacts, model.Contact{
				Name:      nearestName(block),
				Email:     email,
				SourceURL: task.URL,
			})
		}
	})

	if task.Kind != model.TaskListing || len(contacts) == 0 {
		return contacts, nil
	}
	return contacts, []model.CrawlTask{nextListingTask(task)}
}
