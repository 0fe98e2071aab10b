// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code lookup

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "game_folder_missing",
			code:    errors.ErrGameFolderUnset,
			message: "game content folder is not configured",
			wantStr: "[GAME_FOLDER_MISSING] game content folder is not configured",
		},
		{
			name:    "nothing_to_unpack",
			code:    errors.ErrNothingToUnpack,
			message: "no enabled mods",
			wantStr: "[NOTHING_TO_UNPACK] no enabled mods",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrModNotFound, "mod %q not found in %d folders", "ui-tweaks", 2)
	assert.Equal(t, `mod "ui-tweaks" not found in 2 folders`, err.Message)
}

func TestWrap(t *testing.T) {
	t.Run("nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "ignored"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "ignored %d", 1))
	})

	t.Run("wrapped_error_is_reachable", func(t *testing.T) {
		base := stderrors.New("disk full")
		err := errors.Wrap(base, errors.ErrFileWrite, "failed to write sidecar")

		assert.Equal(t, "[FILE_WRITE] failed to write sidecar: disk full", err.Error())
		assert.True(t, stderrors.Is(err, base))
	})

	t.Run("wrapf_formats_message", func(t *testing.T) {
		err := errors.Wrapf(stderrors.New("exit status 1"), errors.ErrPackerFailed, "unpack %s", "a.pak")
		assert.Equal(t, "unpack a.pak", err.Message)
	})
}

func TestIsErrorCode(t *testing.T) {
	err := errors.New(errors.ErrPackerDisabled, "tool disabled")
	wrapped := fmt.Errorf("unpack: %w", err)

	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrPackerDisabled))
	assert.False(t, errors.IsErrorCode(wrapped, errors.ErrPackerFailed))
	assert.False(t, errors.IsErrorCode(stderrors.New("plain"), errors.ErrPackerDisabled))
	assert.False(t, errors.IsErrorCode(nil, errors.ErrPackerDisabled))
}

func TestIsMatchesByCode(t *testing.T) {
	err := errors.New(errors.ErrNoPatchFiles, "first")
	target := errors.New(errors.ErrNoPatchFiles, "different message")

	assert.True(t, stderrors.Is(err, target))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrNoArtifacts, "first")))
}

func TestGetErrorCodeAndDetails(t *testing.T) {
	err := errors.New(errors.ErrModValidation, "archive invalid").
		WithDetail("mod", "ui-tweaks").
		WithDetail("reason", "no content")

	assert.Equal(t, errors.ErrModValidation, errors.GetErrorCode(err))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))

	details := errors.GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "ui-tweaks", details["mod"])
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}
