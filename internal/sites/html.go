package sites

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/facultyscan/facultyscan/internal/model"
)

// headingSelector matches the elements that usually carry a person's
// name near their email link.
const headingSelector = "h1, h2, h3, h4, h5, h6, strong"

// nameClassSelector matches class names directory sites commonly use
// for the name element of an entry.
const nameClassSelector = ".faculty__name, .faculty-card__name, .person__name, .directory-name"

// buttonLabels are anchor texts that are UI chrome, not names.
var buttonLabels = map[string]bool{
	"email":      true,
	"e-mail":     true,
	"contact":    true,
	"send email": true,
}

// EmailFromMailto extracts the address from a mailto: href, stripping
// any query ("?subject=...") or fragment and percent-decoding the rest.
// Returns "" when the href is not a mailto link.
func EmailFromMailto(href string) string {
	href = strings.TrimSpace(href)
	if !strings.HasPrefix(strings.ToLower(href), "mailto:") {
		return ""
	}
	addr := href[len("mailto:"):]
	if i := strings.IndexAny(addr, "?#"); i >= 0 {
		addr = addr[:i]
	}
	if decoded, err := url.QueryUnescape(addr); err == nil {
		addr = decoded
	}
	return strings.TrimSpace(addr)
}

// candidateText returns the selection's text if it is plausibly a name:
// non-empty, no embedded address, and not absurdly long.
func candidateText(sel *goquery.Selection) string {
	text := strings.Join(strings.Fields(sel.Text()), " ")
	if text == "" || strings.Contains(text, "@") {
		return ""
	}
	if words := len(strings.Fields(text)); words < 1 || words > 12 {
		return ""
	}
	return text
}

// nearestName finds the textual label associated with an email anchor.
// Preference order: the anchor's own text (unless it is a button label),
// a name-classed node in a nearby ancestor, then the first heading in a
// nearby ancestor. Returns "" when nothing plausible is found; a missing
// name is permitted.
func nearestName(anchor *goquery.Selection) string {
	if text := candidateText(anchor); text != "" && !buttonLabels[strings.ToLower(text)] {
		return text
	}

	container := anchor
	for hops := 0; hops < 4; hops++ {
		container = container.Parent()
		if container.Length() == 0 {
			break
		}
		if node := container.Find(nameClassSelector).First(); node.Length() > 0 {
			if text := candidateText(node); text != "" {
				return text
			}
		}
		if heading := container.Find(headingSelector).First(); heading.Length() > 0 {
			if text := candidateText(heading); text != "" {
				return text
			}
		}
	}
	return ""
}

// mailtoContacts scans every anchor on the page for valid mailto
// addresses, deduplicating against seen (which it updates). The nearest
// textual label becomes the candidate's name.
func mailtoContacts(doc *goquery.Document, pageURL string, seen map[string]bool) []model.Contact {
	var contacts []model.Contact
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		email := EmailFromMailto(href)
		if email == "" || !model.ValidEmail(email) {
			return
		}
		key := model.NormalizeEmail(email)
		if seen[key] {
			return
		}
		seen[key] = true
		contacts = append(contacts, model.Contact{
			Name:      nearestName(anchor),
			Email:     email,
			SourceURL: pageURL,
		})
	})
	return contacts
}

// withPage returns the URL with its "page" query parameter set to page.
func withPage(rawURL string, page int) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// pageOf returns the URL's current "page" parameter, defaulting to 0.
func pageOf(rawURL string) int {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}
	page, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil {
		return 0
	}
	return page
}

// nextListingTask builds the follow-up task for the next pagination page.
func nextListingTask(task model.CrawlTask) model.CrawlTask {
	return model.CrawlTask{
		URL:   withPage(task.URL, pageOf(task.URL)+1),
		Kind:  model.TaskListing,
		Depth: task.Depth + 1,
	}
}
