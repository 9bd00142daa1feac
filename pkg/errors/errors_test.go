package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCodeAcrossLayers(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := fmt.Errorf("lookup: %w", Wrap("transport_error", "fetch failed for current.json", cause))

	require.True(t, IsCode(err, "transport_error"))
	require.Equal(t, "transport_error", CodeOf(err))
	require.Equal(t, "fetch failed for current.json", MessageOf(err))
	require.ErrorIs(t, err, cause)
}

func TestMessageOfPlainError(t *testing.T) {
	require.Equal(t, "boom", MessageOf(errors.New("boom")))
	require.Equal(t, "", MessageOf(nil))
	require.Equal(t, "", CodeOf(errors.New("boom")))
}
