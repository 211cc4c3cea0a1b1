// Package haar implements a single-level 2-D orthonormal Haar wavelet
// transform over a square coefficient matrix.
//
// The forward transform processes each row, then each column: a line of N
// samples becomes N/2 averaged coefficients followed by N/2 differenced
// coefficients, both scaled by 1/sqrt(2) so the transform is exactly
// invertible. The matrix keeps its original dimensions; this is one
// decomposition level, not a multi-level pyramid.
package haar

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotSquare = errors.New("haar: matrix must be square")
	ErrOddSize   = errors.New("haar: matrix size must be even")
)

// Forward applies the transform in place, rows first, then columns.
func Forward(m *mat.Dense) error {
	n, err := sideOf(m)
	if err != nil {
		return err
	}
	half := n / 2
	line := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < half; j++ {
			a, b := m.At(i, 2*j), m.At(i, 2*j+1)
			line[j] = (a + b) / math.Sqrt2
			line[half+j] = (a - b) / math.Sqrt2
		}
		m.SetRow(i, line)
	}
	for j := 0; j < n; j++ {
		for i := 0; i < half; i++ {
			a, b := m.At(2*i, j), m.At(2*i+1, j)
			line[i] = (a + b) / math.Sqrt2
			line[half+i] = (a - b) / math.Sqrt2
		}
		for i := 0; i < n; i++ {
			m.Set(i, j, line[i])
		}
	}
	return nil
}

// Inverse undoes Forward in place, columns first, then rows.
func Inverse(m *mat.Dense) error {
	n, err := sideOf(m)
	if err != nil {
		return err
	}
	half := n / 2
	line := make([]float64, n)
	for j := 0; j < n; j++ {
		for i := 0; i < half; i++ {
			a, d := m.At(i, j), m.At(half+i, j)
			line[2*i] = (a + d) / math.Sqrt2
			line[2*i+1] = (a - d) / math.Sqrt2
		}
		for i := 0; i < n; i++ {
			m.Set(i, j, line[i])
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < half; j++ {
			a, d := m.At(i, j), m.At(i, half+j)
			line[2*j] = (a + d) / math.Sqrt2
			line[2*j+1] = (a - d) / math.Sqrt2
		}
		m.SetRow(i, line)
	}
	return nil
}

func sideOf(m *mat.Dense) (int, error) {
	r, c := m.Dims()
	if r != c {
		return 0, fmt.Errorf("%w: %dx%d", ErrNotSquare, r, c)
	}
	if r%2 != 0 {
		return 0, fmt.Errorf("%w: %d", ErrOddSize, r)
	}
	return r, nil
}
