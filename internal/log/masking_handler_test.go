package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestMaskingHandler tests credential masking in log output.
func TestMaskingHandler(t *testing.T) {
	t.Parallel()

	t.Run("masks sensitive keys", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewMaskingLogger(&buf, false)

		logger.Info("request sent",
			"cookie", "session=abc123",
			"url", "https://www.law.columbia.edu/faculty",
		)

		output := buf.String()
		if strings.Contains(output, "abc123") {
			t.Errorf("cookie value leaked into output:\n%s", output)
		}
		if !strings.Contains(output, MaskValue) {
			t.Errorf("expected mask value in output:\n%s", output)
		}
		if !strings.Contains(output, "law.columbia.edu") {
			t.Errorf("non-sensitive value must survive:\n%s", output)
		}
	})

	t.Run("masks sensitive value patterns", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewMaskingLogger(&buf, false)

		logger.Info("header set", "value", "Bearer my-secret-token")
		if strings.Contains(buf.String(), "my-secret-token") {
			t.Errorf("bearer token leaked:\n%s", buf.String())
		}
	})

	t.Run("masks inside groups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewMaskingLogger(&buf, false)

		logger.Info("site configured",
			slog.Group("overrides",
				"cookie", "consent=yes",
				"maxPages", 10,
			),
		)

		output := buf.String()
		if strings.Contains(output, "consent=yes") {
			t.Errorf("grouped cookie leaked:\n%s", output)
		}
		if !strings.Contains(output, "maxPages=10") {
			t.Errorf("grouped non-sensitive attr must survive:\n%s", output)
		}
	})

	t.Run("masks WithAttrs attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewMaskingLogger(&buf, false).With("authorization", "Basic dXNlcjpwdw==")

		logger.Info("fetching")
		if strings.Contains(buf.String(), "dXNlcjpwdw") {
			t.Errorf("WithAttrs credential leaked:\n%s", buf.String())
		}
	})

	t.Run("verbose flag controls level", func(t *testing.T) {
		t.Parallel()

		var quiet, verbose bytes.Buffer
		NewMaskingLogger(&quiet, false).Debug("frontier state")
		NewMaskingLogger(&verbose, true).Debug("frontier state")

		if quiet.Len() != 0 {
			t.Error("debug output present without verbose mode")
		}
		if verbose.Len() == 0 {
			t.Error("debug output missing in verbose mode")
		}
	})

	t.Run("seed URLs are not masked", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewMaskingLogger(&buf, false).Info("starting crawl", "seed", "https://law.yale.edu/faculty")
		if !strings.Contains(buf.String(), "law.yale.edu") {
			t.Errorf("seed attribute must not be masked:\n%s", buf.String())
		}
	})
}

// TestMaskingJSONLogger tests the JSON variant.
func TestMaskingJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewMaskingJSONLogger(&buf, false).Info("request sent", "cookie", "session=abc123")

	output := buf.String()
	if strings.Contains(output, "abc123") {
		t.Errorf("cookie leaked in JSON output:\n%s", output)
	}
	if !strings.HasPrefix(output, "{") {
		t.Errorf("expected JSON output, got:\n%s", output)
	}
}
