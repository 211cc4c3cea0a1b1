// Package frame applies the per-frame watermark pipeline: decode image,
// box-average the luminance into the block, Haar transform, QIM embed,
// inverse transform, re-apply the per-cell luminance delta to the
// full-resolution frame, re-encode. The extraction half runs the same
// pipeline up to the forward transform and reads the bits back.
package frame

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	_ "image/jpeg" // sampled frames may arrive as JPEG

	"gonum.org/v1/gonum/mat"

	"github.com/framesig/framesig/internal/haar"
	"github.com/framesig/framesig/internal/qim"
)

// Processor holds the read-only algorithm parameters shared by every
// frame of an invocation.
type Processor struct {
	blockSize int
	bands     int
	stepScale float64
}

func NewProcessor(blockSize, bands int, stepScale float64) *Processor {
	return &Processor{blockSize: blockSize, bands: bands, stepScale: stepScale}
}

// EmbedImage returns a copy of src carrying bits in its luminance plane.
// The luminance delta computed at block scale is constant within each
// block cell and added identically to each color channel, clamped to the
// valid intensity range. Because the delta is constant per cell, the
// box-averaging performed by extraction recovers the watermarked
// coefficients exactly, whatever the frame dimensions.
func (p *Processor) EmbedImage(src image.Image, bits []bool, strength float64) (image.Image, error) {
	n := p.blockSize
	img := toRGBA(src)
	orig := blockLuma(img, n)
	marked := mat.DenseCopyOf(orig)
	if err := haar.Forward(marked); err != nil {
		return nil, err
	}
	qim.Embed(marked, bits, strength*p.stepScale, p.bands)
	if err := haar.Inverse(marked); err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		cy := cellOf(y, h, n)
		for x := 0; x < w; x++ {
			cx := cellOf(x, w, n)
			delta := marked.At(cy, cx) - orig.At(cy, cx)
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			dst.SetRGBA(x, y, color.RGBA{
				R: clamp8(float64(c.R) + delta),
				G: clamp8(float64(c.G) + delta),
				B: clamp8(float64(c.B) + delta),
				A: c.A,
			})
		}
	}
	return dst, nil
}

// ExtractImage reads a candidate bit array back from a frame.
func (p *Processor) ExtractImage(src image.Image, bitCount int, strength float64) ([]bool, error) {
	m := blockLuma(toRGBA(src), p.blockSize)
	if err := haar.Forward(m); err != nil {
		return nil, err
	}
	return qim.Extract(m, bitCount, strength*p.stepScale, p.bands), nil
}

// EmbedFile reads the frame image at srcPath, embeds bits, and writes the
// watermarked frame to dstPath as PNG.
func (p *Processor) EmbedFile(srcPath, dstPath string, bits []bool, strength float64) error {
	src, err := decodeFile(srcPath)
	if err != nil {
		return err
	}
	marked, err := p.EmbedImage(src, bits, strength)
	if err != nil {
		return err
	}
	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create frame %s: %w", dstPath, err)
	}
	defer out.Close()
	if err := png.Encode(out, marked); err != nil {
		return fmt.Errorf("encode frame %s: %w", dstPath, err)
	}
	return nil
}

// ExtractFile reads the frame image at srcPath and returns its candidate
// bit array.
func (p *Processor) ExtractFile(srcPath string, bitCount int, strength float64) ([]bool, error) {
	src, err := decodeFile(srcPath)
	if err != nil {
		return nil, err
	}
	return p.ExtractImage(src, bitCount, strength)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return img, nil
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
