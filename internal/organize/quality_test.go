package organize

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

func TestReportIssue_Policies(t *testing.T) {
	issue := newIssue(IssueUnusedSection, "api")

	cases := []struct {
		policy  config.Severity
		wantLog string
		wantErr bool
	}{
		{config.SeverityIgnore, "", false},
		{config.SeverityLog, "level=DEBUG", false},
		{config.SeverityWarn, "level=WARN", false},
		{config.SeverityThrow, "", true},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			err := ReportIssue(issue, tc.policy, logger)
			if tc.wantErr {
				require.Error(t, err)
				ctx := ferrors.GetContext(err)
				id, _ := ctx.GetString(ferrors.CtxSectionID)
				assert.Equal(t, "api", id)
				return
			}
			require.NoError(t, err)
			if tc.wantLog == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tc.wantLog)
			assert.Contains(t, buf.String(), "section=api")
		})
	}
}
