package docgrab_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/docgrab"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := docgrab.Errorf(docgrab.EUNAVAILABLE, "backend %q not installed", "rod")

	assert.Equal(t, docgrab.EUNAVAILABLE, docgrab.ErrorCode(err))
	assert.Equal(t, "backend \"rod\" not installed", docgrab.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("rendering: %w", docgrab.Errorf(docgrab.ERENDER, "all backends failed"))

	assert.Equal(t, docgrab.ERENDER, docgrab.ErrorCode(err))
	assert.Equal(t, "all backends failed", docgrab.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk full")

	assert.Equal(t, docgrab.EINTERNAL, docgrab.ErrorCode(err))
	assert.Equal(t, "Internal error.", docgrab.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docgrab.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docgrab.ErrorMessage(nil))
}
