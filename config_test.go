package docgrab_test

import (
	"testing"

	"github.com/fwojciec/docgrab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	cfg := docgrab.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ".pdf", cfg.Marker())
	assert.Equal(t, []string{"rod", "chromedp", "http"}, cfg.Backends)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*docgrab.Config)
	}{
		{"relative page URL", func(c *docgrab.Config) { c.PageURL = "/101/1010/index.html" }},
		{"non-http scheme", func(c *docgrab.Config) { c.PageURL = "ftp://example.com/list" }},
		{"empty output dir", func(c *docgrab.Config) { c.OutputDir = "" }},
		{"empty extension", func(c *docgrab.Config) { c.Extension = "" }},
		{"no backends", func(c *docgrab.Config) { c.Backends = nil }},
		{"unknown backend", func(c *docgrab.Config) { c.Backends = []string{"selenium"} }},
		{"negative delay", func(c *docgrab.Config) { c.Delay = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := docgrab.DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, docgrab.EINVALID, docgrab.ErrorCode(err))
		})
	}
}

func TestConfig_RefererURL(t *testing.T) {
	t.Parallel()

	t.Run("derives origin from page URL", func(t *testing.T) {
		t.Parallel()

		cfg := docgrab.DefaultConfig()
		assert.Equal(t, "https://gesp.ccf.org.cn/", cfg.RefererURL())
	})

	t.Run("explicit referer wins", func(t *testing.T) {
		t.Parallel()

		cfg := docgrab.DefaultConfig()
		cfg.Referer = "https://example.com/from"
		assert.Equal(t, "https://example.com/from", cfg.RefererURL())
	})
}

func TestNormalizeExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".pdf", docgrab.NormalizeExtension("PDF"))
	assert.Equal(t, ".pdf", docgrab.NormalizeExtension(".Pdf"))
	assert.Equal(t, ".docx", docgrab.NormalizeExtension(" docx "))
}
