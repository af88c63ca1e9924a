// Package logging includes tests for the zap logger helpers.
package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewDevelopmentLogger(t *testing.T) {
	t.Parallel()

	logger, err := New(true)
	require.NoError(t, err)
	require.NotNil(t, logger)
	defer logger.Sync() //nolint:errcheck // best-effort flush
	logger.Info("development logger ready")
}

func TestNewProductionLogger(t *testing.T) {
	t.Parallel()

	logger, err := New(false)
	require.NoError(t, err)
	require.NotNil(t, logger)
	defer logger.Sync() //nolint:errcheck // best-effort flush
	logger.Info("production logger ready")
}

func TestForRunAssignsDistinctIDs(t *testing.T) {
	t.Parallel()

	base := zap.NewNop()
	first, id1 := ForRun(base)
	second, id2 := ForRun(base)
	assert.NotNil(t, first)
	assert.NotNil(t, second)
	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)
}
