// Package importer converts freeform contact line lists into contact
// candidates. It is the manual-entry counterpart to the crawler: both
// feed the same store submit contract.
//
// Supported line shapes:
//
//	bare@example.edu
//	Jane Doe <jane@example.edu>
//	Jane Doe - jane@example.edu     (hyphen, en dash, or em dash)
//	Jane Doe, jane@example.edu
//	jane@example.edu, Jane Doe
//
// Lines that yield no valid address are skipped silently; blank lines
// and lines starting with '#' are comments.
package importer
