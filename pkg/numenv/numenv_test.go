package numenv

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyThreadEnv(t *testing.T) {
	for _, name := range threadVars {
		t.Setenv(name, "unset")
	}

	require.NoError(t, applyThreadEnv(1))

	for _, name := range threadVars {
		assert.Equal(t, "1", os.Getenv(name), name)
	}
}

func TestApplyThreadEnvOtherCounts(t *testing.T) {
	for _, name := range threadVars {
		t.Setenv(name, "unset")
	}

	require.NoError(t, applyThreadEnv(8))
	assert.Equal(t, "8", os.Getenv("OMP_NUM_THREADS"))
}
