package sites

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/facultyscan/facultyscan/internal/model"
)

func init() {
	Register("harvard", func() Parser { return &harvardParser{seen: make(map[string]bool)} })
}

// harvardParser handles the Harvard Law faculty directory, which shows
// no addresses on the listing itself. The listing yields one profile
// task per entry; profile URLs are built from the slugified entry name.
// Each profile page carries at most one address.
type harvardParser struct {
	seen map[string]bool
}

// Name implements Parser.
func (p *harvardParser) Name() string { return "harvard" }

// Mode implements Parser.
func (p *harvardParser) Mode() TraversalMode { return ListingToProfile }

// Extract implements Parser.
func (p *harvardParser) Extract(task model.CrawlTask, doc *goquery.Document) ([]model.Contact, []model.CrawlTask) {
	if task.Kind == model.TaskProfile {
		return p.extractProfile(task, doc), nil
	}
	return nil, p.profileTasks(task, doc)
}

// profileTasks builds one profile task per listing entry.
func (p *harvardParser) profileTasks(task model.CrawlTask, doc *goquery.Document) []model.CrawlTask {
	base := strings.TrimRight(task.URL, "/")
	var tasks []model.CrawlTask
	doc.Find(".faculty-feed__item-title").Each(func(_ int, title *goquery.Selection) {
		name := strings.Join(strings.Fields(title.Text()), " ")
		if name == "" {
			return
		}
		slug := slugify(name)
		if slug == "" {
			return
		}
		tasks = append(tasks, model.CrawlTask{
			URL:   base + "/" + slug + "/",
			Kind:  model.TaskProfile,
			Depth: task.Depth,
		})
	})
	return tasks
}

// extractProfile pulls the single contact off a profile page. The
// dedicated contact block is tried first; any mailto on the page is the
// fallback. The page heading supplies the name.
func (p *harvardParser) extractProfile(task model.CrawlTask, doc *goquery.Document) []model.Contact {
	email := firstMailto(doc.Find("p.contact_email"))
	if email == "" {
		email = firstMailto(doc.Selection)
	}
	if email == "" || !model.ValidEmail(email) {
		return nil
	}

	key := model.NormalizeEmail(email)
	if p.seen[key] {
		return nil
	}
	p.seen[key] = true

	name := ""
	if heading := doc.Find("h1").First(); heading.Length() > 0 {
		name = candidateText(heading)
	}
	return []model.Contact{{
		Name:      name,
		Email:     email,
		SourceURL: task.URL,
	}}
}
