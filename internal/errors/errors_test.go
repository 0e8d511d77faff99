package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIs_MatchesWrappedCodes(t *testing.T) {
	cause := NewNetworkFailure(stderrors.New("dial tcp: refused"))
	err := fmt.Errorf("identify: %w", NewIdentificationFailed(cause))

	require.True(t, Is(err, ErrIdentificationFailed))
	require.True(t, Is(err, ErrNetworkFailure))
	require.False(t, Is(err, ErrServiceError))
	require.Equal(t, ErrIdentificationFailed, CodeOf(err))
}

func TestIs_PlainError(t *testing.T) {
	require.False(t, Is(stderrors.New("boom"), ErrInternal))
	require.False(t, Is(nil, ErrInternal))
	require.Equal(t, ErrorCode(""), CodeOf(stderrors.New("boom")))
}

func TestError_Message(t *testing.T) {
	err := NewInvalidState("save", "identifying")
	require.Equal(t, "INVALID_STATE: save is not allowed in state identifying", err.Error())
	require.Equal(t, "save", err.Details["operation"])

	wrapped := NewWriteFailure(stderrors.New("disk full"))
	require.Equal(t, "WRITE_FAILURE: failed to write record: disk full", wrapped.Error())
	require.ErrorContains(t, wrapped, "disk full")
}

func TestNewServiceError_Details(t *testing.T) {
	err := NewServiceError(503, "unavailable")
	require.Equal(t, 503, err.Details["status"])
	require.Equal(t, "unavailable", err.Details["body"])
}
