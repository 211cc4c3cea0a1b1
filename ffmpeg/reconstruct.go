package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"github.com/framesig/framesig"
)

// Reconstruct writes a copy of the original video in which only the
// frames at the given timestamps are replaced by their watermarked
// images. Each replacement image is overlaid for exactly one source frame
// duration; all other frames, the audio track, and container metadata
// pass through.
func (r *Runner) Reconstruct(ctx context.Context, originalPath, outputPath string, frames []framesig.Frame) error {
	if len(frames) == 0 {
		return r.runFFmpeg(ctx, []string{
			"-v", "error", "-i", originalPath, "-c", "copy", "-map_metadata", "0", "-y", outputPath,
		})
	}
	info, err := r.Probe(ctx, originalPath)
	if err != nil {
		return err
	}
	fps := info.FrameRate
	if fps <= 0 {
		fps = 30
	}
	return r.runFFmpeg(ctx, buildReconstructArgs(originalPath, outputPath, frames, 1/fps))
}

// buildReconstructArgs chains one overlay per replacement frame, each
// enabled only inside its [timestamp, timestamp+frameDur) window. The
// window is half-open: between() would also match the exact start of the
// following frame.
func buildReconstructArgs(originalPath, outputPath string, frames []framesig.Frame, frameDur float64) []string {
	args := []string{"-v", "error", "-i", originalPath}
	for _, f := range frames {
		args = append(args, "-i", f.Path)
	}

	var filter strings.Builder
	label := "[0:v]"
	for i, f := range frames {
		if i > 0 {
			filter.WriteString(";")
		}
		next := fmt.Sprintf("[v%d]", i+1)
		fmt.Fprintf(&filter, "%s[%d:v]overlay=enable='gte(t,%.6f)*lt(t,%.6f)'%s",
			label, i+1, f.Timestamp, f.Timestamp+frameDur, next)
		label = next
	}

	return append(args,
		"-filter_complex", filter.String(),
		"-map", label,
		"-map", "0:a?",
		"-c:a", "copy",
		"-map_metadata", "0",
		"-y", outputPath,
	)
}
