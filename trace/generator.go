package trace

import "math/rand"

// ToySeed is the fixed seed the toy generator always uses, matching
// original_source/crates/sezkp-trace/src/generator.rs's StdRng::seed_from_u64(42).
const ToySeed = 42

// Generate produces a synthetic File with t steps and tau work tapes: each
// step's input-head move and every tape's move are uniform in {-1,0,+1},
// and each tape has a 40% chance of writing a random symbol in [0,15] at
// its post-move position. The generator is deterministic for a given
// (t, tau) — it always seeds from ToySeed — grounded on the teacher's own
// practice of seeding math/rand deterministically for reproducible test
// fixtures (see test/fuzz.go, test/api_assertions_test.go).
func Generate(t uint64, tau uint8) File {
	rng := rand.New(rand.NewSource(ToySeed))
	steps := make([]Step, 0, t)

	randMv := func() int8 {
		switch rng.Intn(3) {
		case 0:
			return -1
		case 1:
			return 0
		default:
			return 1
		}
	}

	for n := uint64(0); n < t; n++ {
		inputMv := randMv()

		tapes := make([]TapeOp, tau)
		for r := uint8(0); r < tau; r++ {
			var write *uint16
			if rng.Float64() < 0.4 {
				sym := uint16(rng.Intn(16))
				write = &sym
			}
			tapes[r] = TapeOp{Write: write, Mv: randMv()}
		}
		steps = append(steps, Step{InputMv: inputMv, Tapes: tapes})
	}

	return File{Version: 1, Tau: tau, Steps: steps}
}
