package model

// Contact is a single discovered contact record.
//
// A Contact produced by a site parser is a candidate: it has not yet been
// validated or checked against the dedup index. Once accepted by a store it
// becomes a persisted record and is never rewritten.
type Contact struct {
	// Name is the person's display name as found on the page, trimmed.
	// May be empty; a candidate without a name is still usable as long
	// as it carries an email address.
	Name string `json:"name,omitempty"`

	// Email is the contact address. Required. Original case is preserved
	// for display; comparison uses the normalized form (see NormalizeEmail).
	Email string `json:"email"`

	// Affiliation is the institution the contact belongs to.
	// Injected by the caller from configuration, never parsed from the page.
	Affiliation string `json:"affiliation,omitempty"`

	// SourceURL is the page the contact was discovered on.
	SourceURL string `json:"source_url,omitempty"`

	// Subject is an optional topic tag attached to the whole run.
	Subject string `json:"subject,omitempty"`
}

// Key returns the dedup key for the contact: its normalized email.
func (c Contact) Key() string {
	return NormalizeEmail(c.Email)
}
