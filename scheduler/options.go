package scheduler

// FoldMode selects the scheduler's memory regime.
type FoldMode int

const (
	// Balanced keeps every proof body (leaf and interior) resident in
	// memory and inline in the resulting bundle.
	Balanced FoldMode = iota
	// MinRAM keeps only the constant-size Endpoint of each node on the
	// pending ladder, spilling full leaf and fold proof bodies to a
	// sidecar stream as soon as Push/PushBatch produces them. The closing
	// folds made by Finish are kept inline in the bundle.
	MinRAM
)

func (m FoldMode) String() string {
	if m == MinRAM {
		return "minram"
	}
	return "balanced"
}

// Options configures a Driver.
type Options struct {
	Mode FoldMode

	// WrapCadence emits a WrapProof after every WrapCadence folds: each
	// fold whose 1-based production count is a multiple of WrapCadence is
	// wrapped, at whatever level it sits. Zero disables wrap emission
	// entirely.
	WrapCadence uint32

	// EndpointCacheSize bounds the verify-side EndpointCache. Zero
	// disables caching.
	EndpointCacheSize int

	// Parallelism bounds how many leaf proofs PushBatch computes
	// concurrently before folding them into the ladder sequentially.
	// Values <= 1 disable concurrency.
	Parallelism int

	// SidecarPath is where MinRAM mode spills full leaf and fold proof
	// bodies. Required when Mode == MinRAM.
	SidecarPath string

	// ExpectedBlocks, when nonzero, pre-sizes the pending ladder using
	// depthBound instead of growing it one append at a time.
	ExpectedBlocks uint32
}
