package importer

import (
	"strings"
	"testing"
)

// TestParseLines tests the supported line shapes.
func TestParseLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		line      string
		wantName  string
		wantEmail string
	}{
		{"bare email", "c@y.edu", "", "c@y.edu"},
		{"angle brackets", "Jane Doe <jane@y.edu>", "Jane Doe", "jane@y.edu"},
		{"hyphen separator", "Prof. C - c@y.edu", "Prof. C", "c@y.edu"},
		{"en dash separator", "Prof. C – c@y.edu", "Prof. C", "c@y.edu"},
		{"em dash separator", "Prof. C — c@y.edu", "Prof. C", "c@y.edu"},
		{"reversed dash", "c@y.edu - Prof. C", "Prof. C", "c@y.edu"},
		{"name comma email", "Jane Doe, jane@y.edu", "Jane Doe", "jane@y.edu"},
		{"email comma name", "jane@y.edu, Jane Doe", "Jane Doe", "jane@y.edu"},
		{"trailing punctuation", "Write to jane@y.edu.", "Write to", "jane@y.edu"},
		{"bracketed note", "Jane Doe (emeritus) <jane@y.edu>", "Jane Doe", "jane@y.edu"},
		{"quoted name", `"Jane Doe" <jane@y.edu>`, "Jane Doe", "jane@y.edu"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			contacts := ParseLines([]string{tt.line}, "Y Law", "manual_list", "")
			if len(contacts) != 1 {
				t.Fatalf("ParseLines(%q) yielded %d contacts, want 1", tt.line, len(contacts))
			}
			c := contacts[0]
			if c.Name != tt.wantName {
				t.Errorf("name = %q, want %q", c.Name, tt.wantName)
			}
			if c.Email != tt.wantEmail {
				t.Errorf("email = %q, want %q", c.Email, tt.wantEmail)
			}
			if c.Affiliation != "Y Law" || c.SourceURL != "manual_list" {
				t.Errorf("caller-supplied fields not attached: %+v", c)
			}
		})
	}
}

// TestParseLinesSkips tests lines that must yield nothing.
func TestParseLinesSkips(t *testing.T) {
	t.Parallel()

	lines := []string{
		"",
		"   ",
		"# a comment",
		"no address on this line",
		"redacted (at) example (dot) edu",
		"Jane Doe - not-an-email",
	}

	if contacts := ParseLines(lines, "", "", ""); len(contacts) != 0 {
		t.Errorf("expected 0 contacts from unusable lines, got %d: %+v", len(contacts), contacts)
	}
}

// TestParseLinesMixedFile tests a realistic mixed list in one pass.
func TestParseLinesMixedFile(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"# faculty outreach list",
		"Jane Doe <jane@y.edu>",
		"",
		"Prof. C - c@y.edu",
		"bare@y.edu",
		"skip me",
	}, "\n")

	contacts, err := ParseReader(strings.NewReader(input), "Y Law", "manual_list", "quotes")
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}
	if len(contacts) != 3 {
		t.Fatalf("expected 3 contacts, got %d: %+v", len(contacts), contacts)
	}
	if contacts[2].Email != "bare@y.edu" || contacts[2].Name != "" {
		t.Errorf("bare line = %+v", contacts[2])
	}
	for _, c := range contacts {
		if c.Subject != "quotes" {
			t.Errorf("subject not attached on %+v", c)
		}
	}
}
