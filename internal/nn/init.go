package nn

import (
	"math"
	"math/rand"
)

// xavierUniform fills data with samples from U(-limit, limit) where
// limit = sqrt(6 / (fanIn + fanOut)). Keeps forward and backward variance
// roughly constant for sigmoid/tanh layers.
func xavierUniform(data []float32, fanIn, fanOut int, rng *rand.Rand) {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	for i := range data {
		data[i] = float32((rng.Float64()*2 - 1) * limit)
	}
}

// heNormal fills data with samples from N(0, sqrt(2/fanIn)), the usual
// choice ahead of ReLU activations.
func heNormal(data []float32, fanIn int, rng *rand.Rand) {
	std := math.Sqrt(2 / float64(fanIn))
	for i := range data {
		data[i] = float32(rng.NormFloat64() * std)
	}
}
