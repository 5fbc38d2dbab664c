// Package log provides logging with automatic masking of credentials,
// built on top of the standard slog package.
//
// Per-site configuration can carry session cookies and authentication
// headers for directories behind consent walls. Those values end up in
// request plumbing that logs its inputs, so the handler masks them
// before they reach the output:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (tokens, basic auth)
//   - Session identifiers
//
// Even in verbose mode, masked values stay masked, so debug logs can be
// shared without leaking a session.
//
// # Usage
//
//	logger := log.NewMaskingLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("request sent",
//	    "cookie", "session=abc123",  // Masked in the output
//	    "url", "https://www.law.columbia.edu/faculty",
//	)
//
//	slog.SetDefault(logger)
package log
