package dem

import (
	"hash/fnv"
	"math/rand"
)

// FitKey uniquely identifies a reproducible fit run. Two fits with the same
// FitKey and identical configuration MUST draw identical random sequences.
type FitKey int64

// NewFitKey creates a FitKey from a seed value.
func NewFitKey(seed int64) FitKey {
	return FitKey(seed)
}

const (
	// SubsystemPerturb is the RNG subsystem for starting-point perturbation.
	// Uses the master seed directly, so --seed reproduces the same start.
	SubsystemPerturb = "perturb"

	// SubsystemSearch is the RNG subsystem for any randomized search step.
	SubsystemSearch = "search"
)

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem, so that adding random draws to one stage of the pipeline never
// shifts the sequence seen by another.
//
// Derivation: SubsystemPerturb uses the master seed directly; every other
// subsystem uses masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. Sequential reuse across calls is safe;
// concurrent callers need external synchronization.
type PartitionedRNG struct {
	key        FitKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a FitKey.
func NewPartitionedRNG(key FitKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same name always returns the same *rand.Rand instance.
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key)
	if name != SubsystemPerturb {
		derivedSeed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the FitKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() FitKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
