package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("nil vector", func(t *testing.T) {
		assert.Nil(t, NormalizeVector(nil))
	})

	t.Run("zero vector is returned unchanged", func(t *testing.T) {
		v := []float32{0, 0, 0}
		assert.Equal(t, v, NormalizeVector(v))
	})

	t.Run("unit result", func(t *testing.T) {
		v := NormalizeVector([]float32{3, 4})
		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
		assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
		assert.InDelta(t, 0.8, float64(v[1]), 1e-6)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		v := []float32{3, 4}
		_ = NormalizeVector(v)
		assert.Equal(t, []float32{3, 4}, v)
	})
}

func TestDotProduct(t *testing.T) {
	t.Run("orthogonal", func(t *testing.T) {
		assert.Equal(t, float32(0), dotProduct([]float32{1, 0}, []float32{0, 1}))
	})

	t.Run("parallel unit vectors", func(t *testing.T) {
		assert.Equal(t, float32(1), dotProduct([]float32{1, 0}, []float32{1, 0}))
	})

	t.Run("opposite unit vectors", func(t *testing.T) {
		assert.Equal(t, float32(-1), dotProduct([]float32{0, 1}, []float32{0, -1}))
	})

	t.Run("mismatched lengths use the shorter", func(t *testing.T) {
		assert.Equal(t, float32(4), dotProduct([]float32{1, 2, 3}, []float32{2, 1}))
	})
}
