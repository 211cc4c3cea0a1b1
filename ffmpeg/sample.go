package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/framesig/framesig"
)

// SampleEvenly extracts count frames evenly spaced across the video
// duration, one seek per frame. Frame timestamps land at the midpoint of
// each interval so the first and last frames avoid fade-in/fade-out
// edges.
func (r *Runner) SampleEvenly(ctx context.Context, videoPath, dir string, count int) ([]framesig.Frame, error) {
	if count < 1 {
		return nil, fmt.Errorf("frame count %d must be at least 1", count)
	}
	info, err := r.Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	if info.Duration <= 0 {
		return nil, fmt.Errorf("cannot sample video with unknown duration: %s", videoPath)
	}

	frames := make([]framesig.Frame, 0, count)
	for i := 0; i < count; i++ {
		ts := info.Duration * (float64(i) + 0.5) / float64(count)
		out := filepath.Join(dir, fmt.Sprintf("sample_%04d.png", i))
		if err := r.runFFmpeg(ctx, buildSeekArgs(videoPath, out, ts)); err != nil {
			return nil, err
		}
		frames = append(frames, framesig.Frame{Timestamp: ts, Path: out})
	}
	return frames, nil
}

// SampleRate extracts up to limit frames from the start of the video at
// the given sampling rate. A video shorter than limit/fps seconds yields
// fewer frames; a video yielding none is not an error.
func (r *Runner) SampleRate(ctx context.Context, videoPath, dir string, fps float64, limit int) ([]framesig.Frame, error) {
	if fps <= 0 || limit < 1 {
		return nil, fmt.Errorf("invalid sampling parameters: fps=%g limit=%d", fps, limit)
	}
	pattern := filepath.Join(dir, "rate_%04d.png")
	if err := r.runFFmpeg(ctx, buildRateArgs(videoPath, pattern, fps, limit)); err != nil {
		return nil, err
	}

	var frames []framesig.Frame
	for i := 0; i < limit; i++ {
		// ffmpeg numbers output images from 1.
		path := fmt.Sprintf(pattern, i+1)
		if _, err := os.Stat(path); err != nil {
			break
		}
		frames = append(frames, framesig.Frame{Timestamp: float64(i) / fps, Path: path})
	}
	return frames, nil
}

func buildSeekArgs(videoPath, outPath string, ts float64) []string {
	return []string{
		"-v", "error",
		"-ss", fmt.Sprintf("%.6f", ts),
		"-i", videoPath,
		"-frames:v", "1",
		"-y", outPath,
	}
}

func buildRateArgs(videoPath, pattern string, fps float64, limit int) []string {
	return []string{
		"-v", "error",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=%g", fps),
		"-frames:v", fmt.Sprintf("%d", limit),
		"-y", pattern,
	}
}
