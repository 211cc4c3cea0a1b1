// Package ffmpeg implements the framesig.Transcoder collaborator with
// ffmpeg/ffprobe subprocesses.
//
// Requires ffmpeg and ffprobe on PATH, or the FFMPEG_PATH and
// FFPROBE_PATH environment variables. Both are part of the FFmpeg
// distribution: https://ffmpeg.org
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/framesig/framesig"
)

// Runner shells out to ffmpeg/ffprobe. The zero value is not usable;
// construct it with New.
type Runner struct {
	FFmpegPath  string
	FFprobePath string
}

var _ framesig.Transcoder = (*Runner)(nil)

func New() *Runner {
	return &Runner{
		FFmpegPath:  envOr("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: envOr("FFPROBE_PATH", "ffprobe"),
	}
}

func (r *Runner) runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg exec: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
