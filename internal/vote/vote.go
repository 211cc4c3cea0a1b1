// Package vote combines candidate bit arrays extracted from several frames
// into a single bitstream by positionwise majority, and scores how strongly
// the frames agree.
package vote

// AgreementThreshold is the fraction of frames that must agree with the
// majority value for a bit position to count toward the confidence score.
const AgreementThreshold = 0.7

// Tally accumulates per-frame candidate bit arrays of a fixed length.
// Candidates of a different length are ignored.
type Tally struct {
	ones   []int
	frames int
}

func NewTally(length int) *Tally {
	return &Tally{ones: make([]int, length)}
}

func (t *Tally) Add(candidate []bool) {
	if len(candidate) != len(t.ones) {
		return
	}
	for i, b := range candidate {
		if b {
			t.ones[i]++
		}
	}
	t.frames++
}

// Frames reports how many candidates have been accumulated.
func (t *Tally) Frames() int {
	return t.frames
}

// Majority returns the positionwise majority bitstream. Ties resolve to 0.
func (t *Tally) Majority() []bool {
	bits := make([]bool, len(t.ones))
	for i, ones := range t.ones {
		bits[i] = ones*2 > t.frames
	}
	return bits
}

// Confidence is the percentage of bit positions where more than
// AgreementThreshold of the frames agree with the majority value.
func (t *Tally) Confidence() float64 {
	if t.frames == 0 || len(t.ones) == 0 {
		return 0
	}
	var agreeing int
	for _, ones := range t.ones {
		agree := t.frames - ones
		if ones*2 > t.frames {
			agree = ones
		}
		if float64(agree) > AgreementThreshold*float64(t.frames) {
			agreeing++
		}
	}
	return float64(agreeing) / float64(len(t.ones)) * 100
}
