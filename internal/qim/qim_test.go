package qim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestZones(t *testing.T) {
	zones := Zones(64, 0)
	require.Len(t, zones, 15)
	// The canonical mid-frequency region comes first.
	assert.Equal(t, Zone{Row: 16, Col: 16, Size: 16}, zones[0])
	// The low-frequency tile at the origin is never an embedding region.
	for _, z := range zones {
		assert.False(t, z.Row == 0 && z.Col == 0, "zone %+v overlaps the low-frequency tile", z)
	}
	assert.Len(t, Zones(64, 3), 3)
	assert.Equal(t, 15*16*16, Capacity(64, 0))
	assert.Equal(t, 3*16*16, Capacity(64, 3))
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	rd := rand.New(rand.NewSource(1))
	test := []struct {
		name     string
		bitCount int
		step     float64
		bands    int
	}{
		{"short_stream", 8, 4.0, 0},
		{"one_band", 64, 4.0, 1},
		{"zone_sized", 256, 2.5, 0},
		{"long_stream", 2000, 12.0, 0},
		{"small_step", 100, 0.5, 0},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			coeffs := randomCoeffs(rd, 64)
			bits := randomBits(rd, tt.bitCount)

			Embed(coeffs, bits, tt.step, tt.bands)
			got := Extract(coeffs, tt.bitCount, tt.step, tt.bands)

			assert.Equal(t, bits, got)
		})
	}
}

func TestExtractToleratesSmallNoise(t *testing.T) {
	rd := rand.New(rand.NewSource(2))
	coeffs := randomCoeffs(rd, 64)
	bits := randomBits(rd, 256)
	const step = 8.0

	Embed(coeffs, bits, step, 0)
	// Perturb every coefficient by strictly less than a quarter step.
	for r := 0; r < 64; r++ {
		for c := 0; c < 64; c++ {
			coeffs.Set(r, c, coeffs.At(r, c)+(rd.Float64()-0.5)*step/4)
		}
	}

	assert.Equal(t, bits, Extract(coeffs, 256, step, 0))
}

func TestEmbedLeavesOtherRegionsUntouched(t *testing.T) {
	rd := rand.New(rand.NewSource(3))
	coeffs := randomCoeffs(rd, 64)
	before := mat.DenseCopyOf(coeffs)

	Embed(coeffs, randomBits(rd, 64), 4.0, 1)

	// Only the canonical zone may change when a single band is configured.
	for r := 0; r < 64; r++ {
		for c := 0; c < 64; c++ {
			inZone := r >= 16 && r < 32 && c >= 16 && c < 32
			if !inZone {
				assert.Equal(t, before.At(r, c), coeffs.At(r, c))
			}
		}
	}
}

func TestDegenerateInputs(t *testing.T) {
	coeffs := mat.NewDense(64, 64, nil)
	Embed(coeffs, nil, 4.0, 0)
	Embed(coeffs, []bool{true}, 0, 0)
	assert.Nil(t, Extract(coeffs, 0, 4.0, 0))
	assert.Nil(t, Extract(coeffs, 8, 0, 0))
}

func randomCoeffs(rd *rand.Rand, n int) *mat.Dense {
	data := make([]float64, n*n)
	for i := range data {
		data[i] = rd.Float64()*400 - 200
	}
	return mat.NewDense(n, n, data)
}

func randomBits(rd *rand.Rand, n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = rd.Intn(2) == 1
	}
	return bits
}
