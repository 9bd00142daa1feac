package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSince(t *testing.T) {
	timing := Since("current.json", time.Now().Add(-50*time.Millisecond))
	require.Equal(t, "current.json", timing.Endpoint)
	require.GreaterOrEqual(t, timing.DurationMs, int64(50))
}
