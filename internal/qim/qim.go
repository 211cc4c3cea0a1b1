// Package qim embeds and extracts bit sequences in wavelet coefficients
// using quantization index modulation: a coefficient is snapped to the
// nearest multiple of the quantization step for a 0 bit and nudged half a
// step off the grid for a 1 bit.
package qim

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Zone is a square sub-region of the coefficient matrix.
type Zone struct {
	Row, Col, Size int
}

// Zones returns the embedding regions for an n-by-n coefficient matrix.
// Each region is a tile of side n/4. The canonical mid-frequency tile at
// [n/4, n/2) along both axes comes first; the remaining tiles follow in
// row-major order. The tile at the origin holds the low-frequency averages
// and is never used, since modifying it is visible. bands limits how many
// tiles are returned; bands <= 0 selects every usable tile.
func Zones(n, bands int) []Zone {
	size := n / 4
	if size < 1 {
		return nil
	}
	zones := []Zone{{Row: size, Col: size, Size: size}}
	for tr := 0; tr < 4; tr++ {
		for tc := 0; tc < 4; tc++ {
			if tr == 0 && tc == 0 {
				continue
			}
			if tr == 1 && tc == 1 {
				continue
			}
			zones = append(zones, Zone{Row: tr * size, Col: tc * size, Size: size})
		}
	}
	if bands > 0 && bands < len(zones) {
		zones = zones[:bands]
	}
	return zones
}

// Capacity reports the number of coefficient positions available for
// embedding in an n-by-n matrix.
func Capacity(n, bands int) int {
	var total int
	for _, z := range Zones(n, bands) {
		total += z.Size * z.Size
	}
	return total
}

// Embed writes bits into coeffs in place. Tiles are walked in scan order,
// one bit per coefficient position; the bit index wraps modulo the stream
// length, so a short stream is repeated across the remaining positions and
// extraction gathers several observations per bit.
func Embed(coeffs *mat.Dense, bits []bool, step float64, bands int) {
	if len(bits) == 0 || step <= 0 {
		return
	}
	n, _ := coeffs.Dims()
	idx := 0
	for _, z := range Zones(n, bands) {
		for r := z.Row; r < z.Row+z.Size; r++ {
			for c := z.Col; c < z.Col+z.Size; c++ {
				q := math.Round(coeffs.At(r, c)/step) * step
				if bits[idx%len(bits)] {
					q += step / 2
				}
				coeffs.Set(r, c, q)
				idx++
			}
		}
	}
}

// Extract reads bitCount bits back from coeffs, walking the same tiles in
// the same scan order as Embed. A position votes 1 when its coefficient
// deviates from the nearest quantization level by more than a quarter
// step. Repeated observations of the same bit are majority-combined, ties
// resolving to 0.
func Extract(coeffs *mat.Dense, bitCount int, step float64, bands int) []bool {
	if bitCount <= 0 || step <= 0 {
		return nil
	}
	n, _ := coeffs.Dims()
	ones := make([]int, bitCount)
	seen := make([]int, bitCount)
	idx := 0
	for _, z := range Zones(n, bands) {
		for r := z.Row; r < z.Row+z.Size; r++ {
			for c := z.Col; c < z.Col+z.Size; c++ {
				v := coeffs.At(r, c)
				q := math.Round(v/step) * step
				if math.Abs(v-q) > step/4 {
					ones[idx%bitCount]++
				}
				seen[idx%bitCount]++
				idx++
			}
		}
	}
	bits := make([]bool, bitCount)
	for i := range bits {
		bits[i] = ones[i]*2 > seen[i]
	}
	return bits
}
