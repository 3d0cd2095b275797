// Package config lifts the prove/verify CLI flags and their SEZKP_* mirror
// environment variables into an explicit Scheduler struct, following the
// teacher's functional-options compile-config pattern (frontend.CompileOption
// / frontend.CompileConfig) rather than scattering global state.
package config

import (
	"os"
	"strconv"

	"github.com/logannye/streaming-zero-knowledge-proofs/scheduler"
	"github.com/logannye/streaming-zero-knowledge-proofs/sezkperr"
)

// Scheduler holds the resolved fold-scheduler configuration: defaults,
// overridden by SEZKP_* environment variables, overridden in turn by
// explicit flags (the precedence flags > env > default mirrors spec.md §6's
// "consulted when the flag is absent").
type Scheduler struct {
	Mode            scheduler.FoldMode
	FoldCacheSize   int
	WrapCadence     uint32
	ProofStreamPath string
}

// DefaultScheduler returns the zero-configuration defaults: balanced mode,
// no endpoint cache, no wrap cadence, no stream path.
func DefaultScheduler() Scheduler {
	return Scheduler{
		Mode:          scheduler.Balanced,
		FoldCacheSize: 0,
		WrapCadence:   0,
	}
}

// Option mutates a Scheduler config, mirroring frontend.CompileOption.
type Option func(*Scheduler) error

// WithMode sets the fold memory regime.
func WithMode(m scheduler.FoldMode) Option {
	return func(c *Scheduler) error { c.Mode = m; return nil }
}

// WithFoldCacheSize sets the verify-side endpoint cache capacity.
func WithFoldCacheSize(n int) Option {
	return func(c *Scheduler) error { c.FoldCacheSize = n; return nil }
}

// WithWrapCadence sets how many folds elapse between wrap proofs; zero
// disables wrap emission.
func WithWrapCadence(k uint32) Option {
	return func(c *Scheduler) error { c.WrapCadence = k; return nil }
}

// WithProofStreamPath sets the sidecar file path for MinRAM mode.
func WithProofStreamPath(path string) Option {
	return func(c *Scheduler) error { c.ProofStreamPath = path; return nil }
}

// Apply applies opts in order atop c, returning the resulting config.
func (c Scheduler) Apply(opts ...Option) (Scheduler, error) {
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return c, err
		}
	}
	return c, nil
}

// FromEnv starts from DefaultScheduler and overrides each field present in
// the environment: SEZKP_FOLD_MODE ("balanced"|"minram"), SEZKP_FOLD_CACHE
// (integer), SEZKP_WRAP_CADENCE (non-negative integer), and
// SEZKP_PROOF_STREAM_PATH (a file path). Flags passed by the caller as opts
// are applied afterward and always win over the environment.
func FromEnv(opts ...Option) (Scheduler, error) {
	c := DefaultScheduler()

	if v, ok := os.LookupEnv("SEZKP_FOLD_MODE"); ok {
		switch v {
		case "balanced":
			c.Mode = scheduler.Balanced
		case "minram":
			c.Mode = scheduler.MinRAM
		default:
			return c, sezkperr.New(sezkperr.KindDecodeFormat, v, "SEZKP_FOLD_MODE must be \"balanced\" or \"minram\"")
		}
	}
	if v, ok := os.LookupEnv("SEZKP_FOLD_CACHE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, sezkperr.Wrap(sezkperr.KindDecodeFormat, v, "SEZKP_FOLD_CACHE must be an integer", err)
		}
		c.FoldCacheSize = n
	}
	if v, ok := os.LookupEnv("SEZKP_WRAP_CADENCE"); ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c, sezkperr.Wrap(sezkperr.KindDecodeFormat, v, "SEZKP_WRAP_CADENCE must be a non-negative integer", err)
		}
		c.WrapCadence = uint32(n)
	}
	if v, ok := os.LookupEnv("SEZKP_PROOF_STREAM_PATH"); ok {
		c.ProofStreamPath = v
	}

	return c.Apply(opts...)
}

// ToSchedulerOptions builds the scheduler.Options this config describes.
// expectedBlocks may be zero when unknown.
func (c Scheduler) ToSchedulerOptions(expectedBlocks uint32) scheduler.Options {
	return scheduler.Options{
		Mode:              c.Mode,
		WrapCadence:       c.WrapCadence,
		EndpointCacheSize: c.FoldCacheSize,
		SidecarPath:       c.ProofStreamPath,
		ExpectedBlocks:    expectedBlocks,
	}
}
