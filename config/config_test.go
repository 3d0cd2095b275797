package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logannye/streaming-zero-knowledge-proofs/scheduler"
)

func TestDefaultScheduler(t *testing.T) {
	c := DefaultScheduler()
	assert.Equal(t, scheduler.Balanced, c.Mode)
	assert.Equal(t, uint32(0), c.WrapCadence)
}

func TestFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SEZKP_FOLD_MODE", "minram")
	t.Setenv("SEZKP_FOLD_CACHE", "64")
	t.Setenv("SEZKP_WRAP_CADENCE", "8")
	t.Setenv("SEZKP_PROOF_STREAM_PATH", "/tmp/sidecar.bin")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, scheduler.MinRAM, c.Mode)
	assert.Equal(t, 64, c.FoldCacheSize)
	assert.Equal(t, uint32(8), c.WrapCadence)
	assert.Equal(t, "/tmp/sidecar.bin", c.ProofStreamPath)
}

func TestFlagOptionsOverrideEnv(t *testing.T) {
	t.Setenv("SEZKP_FOLD_MODE", "minram")

	c, err := FromEnv(WithMode(scheduler.Balanced))
	require.NoError(t, err)
	assert.Equal(t, scheduler.Balanced, c.Mode, "an explicit flag option must win over the environment")
}

func TestFromEnvRejectsInvalidMode(t *testing.T) {
	t.Setenv("SEZKP_FOLD_MODE", "bogus")
	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnvRejectsNonIntegerCache(t *testing.T) {
	t.Setenv("SEZKP_FOLD_CACHE", "not-a-number")
	_, err := FromEnv()
	require.Error(t, err)
}

func TestToSchedulerOptions(t *testing.T) {
	c := DefaultScheduler()
	c.WrapCadence = 4
	opts := c.ToSchedulerOptions(128)
	assert.Equal(t, uint32(4), opts.WrapCadence)
	assert.Equal(t, uint32(128), opts.ExpectedBlocks)
}
