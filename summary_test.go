package docgrab_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/docgrab"
	"github.com/stretchr/testify/assert"
)

func TestSummary_Tally(t *testing.T) {
	t.Parallel()

	s := &docgrab.Summary{
		Outcomes: []*docgrab.Outcome{
			{Status: docgrab.StatusSucceeded, BytesWritten: 100},
			{Status: docgrab.StatusSucceeded, BytesWritten: 50},
			{Status: docgrab.StatusFailed, Err: errors.New("boom")},
			{Status: docgrab.StatusSkippedExisting},
		},
	}

	s.Tally()

	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, int64(150), s.BytesWritten())
}

func TestSummary_Tally_ResetsCounts(t *testing.T) {
	t.Parallel()

	s := &docgrab.Summary{Succeeded: 7, Failed: 3}

	s.Tally()

	assert.Zero(t, s.Succeeded)
	assert.Zero(t, s.Failed)
	assert.Zero(t, s.Skipped)
}

func TestOutcome_Detail(t *testing.T) {
	t.Parallel()

	t.Run("empty without error", func(t *testing.T) {
		t.Parallel()

		o := &docgrab.Outcome{Status: docgrab.StatusSucceeded}
		assert.Empty(t, o.Detail())
	})

	t.Run("application error message", func(t *testing.T) {
		t.Parallel()

		o := &docgrab.Outcome{Err: docgrab.Errorf(docgrab.EFETCH, "HTTP 404 for %s", "https://example.com/a.pdf")}
		assert.Equal(t, "HTTP 404 for https://example.com/a.pdf", o.Detail())
	})

	t.Run("plain error text", func(t *testing.T) {
		t.Parallel()

		o := &docgrab.Outcome{Err: errors.New("connection reset")}
		assert.Equal(t, "connection reset", o.Detail())
	})
}
