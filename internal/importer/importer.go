package importer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/facultyscan/facultyscan/internal/model"
)

var (
	// anglePattern matches "Name <email>".
	anglePattern = regexp.MustCompile(`^\s*([^<]+?)\s*<([^>]+)>\s*$`)

	// dashPattern matches "Name - email" with hyphen, figure dash,
	// en dash, or em dash separators.
	dashPattern = regexp.MustCompile(`^\s*(.+?)\s*[-\x{2012}\x{2013}\x{2014}]\s*(\S+)\s*$`)

	// emailToken finds an address-shaped token anywhere in a line.
	emailToken = regexp.MustCompile(`[A-Za-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// trailingNote strips bracketed annotations like "(emeritus)".
	trailingNote = regexp.MustCompile(`[(\[{][^)\]}]*[)\]}]\s*$`)
)

// ParseLines converts freeform lines into contact candidates. The
// supplied affiliation, source label, and subject are attached to every
// candidate; nothing is parsed for them.
func ParseLines(lines []string, affiliation, sourceURL, subject string) []model.Contact {
	var contacts []model.Contact
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, email, ok := parseLine(line)
		if !ok {
			continue
		}
		contacts = append(contacts, model.Contact{
			Name:        name,
			Email:       email,
			Affiliation: affiliation,
			SourceURL:   sourceURL,
			Subject:     subject,
		})
	}
	return contacts
}

// ParseReader reads lines from r and converts them like ParseLines.
func ParseReader(r io.Reader, affiliation, sourceURL, subject string) ([]model.Contact, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return ParseLines(lines, affiliation, sourceURL, subject), nil
}

// parseLine extracts one (name, email) pair from a line. The name may
// be empty; ok is false when no valid address was found.
func parseLine(line string) (name, email string, ok bool) {
	// Known shapes first: "Name <email>" then "Name - email".
	if m := anglePattern.FindStringSubmatch(line); m != nil {
		return finish(m[1], m[2])
	}
	if m := dashPattern.FindStringSubmatch(line); m != nil {
		if name, email, ok = finish(m[1], m[2]); ok {
			return name, email, true
		}
		// Reversed "email - name".
		if name, email, ok = finish(m[2], m[1]); ok {
			return name, email, true
		}
	}

	// CSV-like "name,email" or "email,name".
	if strings.Contains(line, ",") {
		parts := strings.SplitN(line, ",", 2)
		first := strings.TrimSpace(parts[0])
		second := strings.TrimSpace(parts[1])
		if model.ValidEmail(first) {
			return finish(second, first)
		}
		if model.ValidEmail(second) {
			return finish(first, second)
		}
	}

	// Last resort: find an address token anywhere and treat the rest
	// of the line as the name.
	loc := emailToken.FindStringIndex(line)
	if loc == nil {
		return "", "", false
	}
	candidate := strings.TrimRight(line[loc[0]:loc[1]], ".,;:")
	rest := strings.TrimSpace(line[:loc[0]])
	if rest == "" {
		rest = strings.TrimSpace(line[loc[1]:])
	}
	return finish(rest, candidate)
}

// finish cleans the name side and validates the address side.
func finish(rawName, rawEmail string) (string, string, bool) {
	email := strings.TrimSpace(rawEmail)
	email = strings.TrimRight(email, ".,;:")
	if !model.ValidEmail(email) {
		return "", "", false
	}

	name := strings.TrimSpace(rawName)
	name = strings.Trim(name, `"'`)
	name = trailingNote.ReplaceAllString(name, "")
	name = strings.Trim(name, " -,:")
	if strings.Contains(name, "@") {
		name = ""
	}
	return name, email, true
}
