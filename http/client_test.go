package http_test

import (
	"net/http"
	"testing"

	dghttp "github.com/fwojciec/docgrab/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("has a cookie jar and the default transport", func(t *testing.T) {
		t.Parallel()

		c := dghttp.NewClient()

		assert.NotNil(t, c.Jar)
		assert.Nil(t, c.Transport)
	})

	t.Run("cloudflare bypass wraps the transport", func(t *testing.T) {
		t.Parallel()

		c := dghttp.NewClient(dghttp.WithCloudflareBypass())

		assert.NotNil(t, c.Jar)
		require.NotNil(t, c.Transport)
		_, plain := c.Transport.(*http.Transport)
		assert.False(t, plain)
	})
}
