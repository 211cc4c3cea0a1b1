package frame

import (
	"image"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"
)

// Broadcast-television luma weights, shared with the BT.601 YUV color
// model used by libraries like OpenCV.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// toRGBA returns src as *image.RGBA, converting when necessary.
func toRGBA(src image.Image) *image.RGBA {
	if img, ok := src.(*image.RGBA); ok {
		return img
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	return dst
}

// cellOf maps pixel coordinate x of an axis with size pixels onto the n
// block cells along that axis. Every pixel lands in exactly one cell, and
// for size >= n every cell receives at least one pixel.
func cellOf(x, size, n int) int {
	c := x * n / size
	if c >= n {
		c = n - 1
	}
	return c
}

// blockLuma box-averages the per-pixel luminance of img into an n-by-n
// matrix. Adding a constant to every pixel of a cell raises the cell mean
// by exactly that constant, so the averaging inverts the per-cell
// luminance shift applied by embedding, regardless of frame dimensions.
// Cells that receive no pixels (frames smaller than the block) inherit
// the previous cell's value in scan order.
func blockLuma(img *image.RGBA, n int) *mat.Dense {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	sum := make([]float64, n*n)
	count := make([]int, n*n)
	for y := 0; y < h; y++ {
		cy := cellOf(y, h, n)
		for x := 0; x < w; x++ {
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			i := cy*n + cellOf(x, w, n)
			sum[i] += lumaR*float64(c.R) + lumaG*float64(c.G) + lumaB*float64(c.B)
			count[i]++
		}
	}
	m := mat.NewDense(n, n, nil)
	var last float64
	for i := 0; i < n*n; i++ {
		if count[i] > 0 {
			last = sum[i] / float64(count[i])
		}
		m.Set(i/n, i%n, last)
	}
	return m
}
