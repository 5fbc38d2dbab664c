package sites

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/facultyscan/facultyscan/internal/model"
)

func init() {
	Register("duke", func() Parser { return &dukeParser{seen: make(map[string]bool)} })
}

// dukeParser handles the Duke Law faculty directory: a single listing
// page where each entry carries an "h3.directory-name" heading near its
// mailto link. The heading text is preferred over the mailto anchor's
// own label, which is usually just "Email". A sweep over the remaining
// mailto anchors catches entries without the heading.
type dukeParser struct {
	seen map[string]bool
}

// Name implements Parser.
func (p *dukeParser) Name() string { return "duke" }

// Mode implements Parser.
func (p *dukeParser) Mode() TraversalMode { return ListingInline }

// Extract implements Parser.
func (p *dukeParser) Extract(task model.CrawlTask, doc *goquery.Document) ([]model.Contact, []model.CrawlTask) {
	var contacts []model.Contact

	doc.Find("h3.directory-name").Each(func(_ int, heading *goquery.Selection) {
		name := candidateText(heading)
		email := mailtoNear(heading)
		if email == "" || !model.ValidEmail(email) {
			return
		}
		key := model.NormalizeEmail(email)
		if p.seen[key] {
			return
		}
		p.seen[key] = true
		contacts = append(contacts, model.Contact{
			Name:      name,
			Email:     email,
			SourceURL: task.URL,
		})
	})

	// Entries without the heading still surface through the generic
	// sweep; addresses paired above are already in seen.
	contacts = append(contacts, mailtoContacts(doc, task.URL, p.seen)...)
	return contacts, nil
}

// mailtoNear finds the mailto address belonging to a name heading by
// widening the search through its ancestors. Sibling blocks after the
// heading are covered too: they share the heading's parent.
func mailtoNear(heading *goquery.Selection) string {
	container := heading
	for hops := 0; hops < 4; hops++ {
		if email := firstMailto(container); email != "" {
			return email
		}
		container = container.Parent()
		if container.Length() == 0 {
			break
		}
	}
	return ""
}
