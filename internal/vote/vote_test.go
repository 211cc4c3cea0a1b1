package vote

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMajority(t *testing.T) {
	test := []struct {
		name       string
		candidates [][]bool
		want       []bool
	}{
		{
			"unanimous",
			[][]bool{{true, false}, {true, false}, {true, false}},
			[]bool{true, false},
		},
		{
			"two_of_three",
			[][]bool{{true, true}, {true, false}, {false, false}},
			[]bool{true, false},
		},
		{
			"tie_resolves_to_zero",
			[][]bool{{true, false}, {false, true}},
			[]bool{false, false},
		},
		{
			"wrong_length_ignored",
			[][]bool{{true, true}, {true}},
			[]bool{true, true},
		},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			tally := NewTally(len(tt.want))
			for _, c := range tt.candidates {
				tally.Add(c)
			}
			assert.Equal(t, tt.want, tally.Majority())
		})
	}
}

func TestConfidence(t *testing.T) {
	// 10 frames, 4 bit positions. Position 0: 10/10 agree. Position 1: 8/10.
	// Position 2: 7/10 (not strictly above the 70% threshold). Position 3: 5/10.
	tally := NewTally(4)
	for i := 0; i < 10; i++ {
		tally.Add([]bool{true, i < 8, i < 7, i < 5})
	}
	// Only positions 0 and 1 clear the threshold.
	assert.InDelta(t, 50.0, tally.Confidence(), 1e-9)
}

func TestConfidenceEmpty(t *testing.T) {
	assert.Zero(t, NewTally(8).Confidence())
	assert.Zero(t, NewTally(0).Confidence())
	assert.Equal(t, 0, NewTally(8).Frames())
}

func TestConfidenceMonotonicity(t *testing.T) {
	// Average confidence over repeated trials must not increase as the
	// per-bit corruption probability grows.
	const (
		frames = 10
		length = 256
		trials = 40
	)
	rd := rand.New(rand.NewSource(99))
	truth := make([]bool, length)
	for i := range truth {
		truth[i] = rd.Intn(2) == 1
	}

	avg := func(p float64) float64 {
		var sum float64
		for trial := 0; trial < trials; trial++ {
			tally := NewTally(length)
			for f := 0; f < frames; f++ {
				candidate := make([]bool, length)
				for i, b := range truth {
					if rd.Float64() < p {
						b = !b
					}
					candidate[i] = b
				}
				tally.Add(candidate)
			}
			sum += tally.Confidence()
		}
		return sum / trials
	}

	clean, noisy, scrambled := avg(0), avg(0.2), avg(0.5)
	assert.InDelta(t, 100.0, clean, 1e-9)
	assert.GreaterOrEqual(t, clean, noisy)
	assert.GreaterOrEqual(t, noisy, scrambled)
}
