package sites

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/facultyscan/facultyscan/internal/model"
)

func init() {
	Register("nyu", func() Parser { return &nyuParser{seen: make(map[string]bool)} })
}

// nyuParser handles the NYU Law faculty listing: a table-shaped page
// where each row holds several cells with class "list". The name sits in
// the ".list.facultyName" cell and the mailto link in the fourth cell of
// the same row. Single page, no pagination.
type nyuParser struct {
	seen map[string]bool
}

// Name implements Parser.
func (p *nyuParser) Name() string { return "nyu" }

// Mode implements Parser.
func (p *nyuParser) Mode() TraversalMode { return ListingInline }

// Extract implements Parser.
func (p *nyuParser) Extract(task model.CrawlTask, doc *goquery.Document) ([]model.Contact, []model.CrawlTask) {
	var contacts []model.Contact

	doc.Find(".list.facultyName").Each(func(_ int, nameCell *goquery.Selection) {
		name := strings.Join(strings.Fields(nameCell.Text()), " ")

		row := nameCell.Parent()
		if row.Length() == 0 {
			return
		}

		// The email lives in the fourth ".list" cell when the row is
		// fully populated; otherwise take any mailto under the row.
		email := ""
		cells := row.Find(".list")
		if cells.Length() >= 4 {
			email = firstMailto(cells.Eq(3))
		}
		if email == "" {
			email = firstMailto(row)
		}
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

	return contacts, nil
}

// firstMailto returns the first valid mailto address under the selection.
func firstMailto(sel *goquery.Selection) string {
	email := ""
	sel.Find("a[href]").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		href, _ := anchor.Attr("href")
		if addr := EmailFromMailto(href); addr != "" {
			email = addr
			return false
		}
		return true
	})
	return email
}
