package bench_test

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/framesig/framesig/internal/frame"
	"github.com/framesig/framesig/payload"
)

func createImage(w, h int) *image.RGBA {
	rd := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				uint8(rd.Intn(256)), uint8(rd.Intn(256)), uint8(rd.Intn(256)), 255,
			})
		}
	}
	return img
}

func createBits(b *testing.B) []bool {
	b.Helper()
	p := payload.Payload{VideoID: "bench-video", UserID: "bench-user", Timestamp: 1700000000}
	bits, err := payload.NewCodec().Encode(p, "bench-key")
	if err != nil {
		b.Fatalf("encode payload: %v", err)
	}
	return bits
}

func BenchmarkEmbedImage(b *testing.B) {
	sizes := [][2]int{{640, 360}, {1280, 720}, {1920, 1080}}
	bits := createBits(b)

	for _, size := range sizes {
		img := createImage(size[0], size[1])
		for _, blockSize := range []int{32, 64, 128} {
			proc := frame.NewProcessor(blockSize, 0, 0.1)
			name := fmt.Sprintf("%dx%d_block%d", size[0], size[1], blockSize)
			b.Run(name, func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					if _, err := proc.EmbedImage(img, bits, 40); err != nil {
						b.Fatalf("embed: %v", err)
					}
				}
			})
		}
	}
}

func BenchmarkExtractImage(b *testing.B) {
	bits := createBits(b)
	proc := frame.NewProcessor(64, 0, 0.1)

	for _, size := range [][2]int{{640, 360}, {1920, 1080}} {
		marked, err := proc.EmbedImage(createImage(size[0], size[1]), bits, 40)
		if err != nil {
			b.Fatalf("embed: %v", err)
		}
		b.Run(fmt.Sprintf("%dx%d", size[0], size[1]), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := proc.ExtractImage(marked, len(bits), 40); err != nil {
					b.Fatalf("extract: %v", err)
				}
			}
		})
	}
}
