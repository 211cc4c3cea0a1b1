package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/framesig/framesig"
)

// probeOutput is the top-level JSON structure of ffprobe -show_streams.
type probeOutput struct {
	Streams []struct {
		CodecName    string `json:"codec_name"`
		CodecType    string `json:"codec_type"` // "video" or "audio"
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		Duration     string `json:"duration"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe returns stream metadata for the video at videoPath.
func (r *Runner) Probe(ctx context.Context, videoPath string) (framesig.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, r.FFprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		videoPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return framesig.VideoInfo{}, fmt.Errorf("ffprobe exec: %w", err)
	}
	return parseProbeOutput(out)
}

func parseProbeOutput(out []byte) (framesig.VideoInfo, error) {
	var data probeOutput
	if err := json.Unmarshal(out, &data); err != nil {
		return framesig.VideoInfo{}, fmt.Errorf("ffprobe parse: %w", err)
	}

	var info framesig.VideoInfo
	for _, s := range data.Streams {
		switch s.CodecType {
		case "video":
			info.VideoCodec = s.CodecName
			info.Width = s.Width
			info.Height = s.Height
			if fps := parseFraction(s.AvgFrameRate); fps > 0 {
				info.FrameRate = fps
			} else {
				info.FrameRate = parseFraction(s.RFrameRate)
			}
			if dur, err := strconv.ParseFloat(s.Duration, 64); err == nil && dur > 0 {
				info.Duration = dur
			}
		case "audio":
			info.AudioCodec = s.CodecName
		}
	}
	// Fall back to format-level duration when the stream omits it.
	if info.Duration == 0 {
		if dur, err := strconv.ParseFloat(data.Format.Duration, 64); err == nil {
			info.Duration = dur
		}
	}
	return info, nil
}

// parseFraction parses ffprobe rational values like "30000/1001".
func parseFraction(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
