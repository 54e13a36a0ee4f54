package core

import (
	"math"
	"math/rand"
)

// Vec2 is a 2D sample in [0,1)²
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Reseed restarts the generator from seed
func (r *RandomSampler) Reseed(seed int64) {
	r.random.Seed(seed)
}

// PixelSeed derives an independent seed for the pixel at index from a frame
// seed using the splitmix64 finalizer, so neighbouring pixels get unrelated
// streams
func PixelSeed(seed int64, index int) int64 {
	z := uint64(seed) + uint64(index+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// StratifiedSample returns sample i of n jittered inside its grid cell.
// The grid is k×k with k = ⌊√n⌋; sample i falls in cell i mod k², so every
// cell receives at least one of the n samples.
func StratifiedSample(i, n int, sampler Sampler) Vec2 {
	k := int(math.Sqrt(float64(n)))
	if k < 1 {
		k = 1
	}
	cell := i % (k * k)
	row, col := cell/k, cell%k

	jitter := sampler.Get2D()
	cellSize := 1.0 / float64(k)
	return Vec2{
		X: (float64(col) + jitter.X) * cellSize,
		Y: (float64(row) + jitter.Y) * cellSize,
	}
}
