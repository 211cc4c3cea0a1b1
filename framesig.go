// Package framesig embeds an encrypted provenance payload invisibly into
// the pixel data of sampled video frames, and re-extracts it from a
// possibly re-encoded copy with a confidence score.
//
// Embedding: the payload is serialized, encrypted, and bit-encoded
// (package payload), then each sampled frame carries the bitstream in the
// mid-frequency Haar wavelet coefficients of its luminance block via
// quantization index modulation. Extraction samples several frames,
// majority-votes the candidate bitstreams, and decrypts the result.
// Container decode and re-mux are delegated to a Transcoder collaborator;
// package ffmpeg provides one.
package framesig

import (
	"context"
	"errors"

	"github.com/framesig/framesig/payload"
)

// Algorithm identifies the embedding scheme reported in results.
const Algorithm = "haar-qim-aes256gcm"

var (
	ErrNilTranscoder = errors.New("framesig: transcoder is required")
	ErrZeroDuration  = errors.New("framesig: video duration is zero or unknown")
	ErrInvalidOption = errors.New("framesig: invalid option")
	ErrInvalidConfig = errors.New("framesig: invalid config")
)

// VideoInfo describes a probed video.
type VideoInfo struct {
	Duration   float64 `json:"duration"` // seconds
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FrameRate  float64 `json:"frameRate"` // frames per second
	VideoCodec string  `json:"videoCodec,omitempty"`
	AudioCodec string  `json:"audioCodec,omitempty"`
}

// Frame is a sampled frame image on disk together with its source
// timestamp in seconds.
type Frame struct {
	Timestamp float64
	Path      string
}

// Transcoder is the external codec/transcoding collaborator. Frame
// sampling and video reconstruction are I/O bound and context aware; the
// engine itself performs only pure CPU work between these calls.
type Transcoder interface {
	// Probe returns stream metadata for the video at videoPath.
	Probe(ctx context.Context, videoPath string) (VideoInfo, error)

	// SampleEvenly extracts count frames evenly spaced across the video
	// duration into dir.
	SampleEvenly(ctx context.Context, videoPath, dir string, count int) ([]Frame, error)

	// SampleRate extracts up to limit frames at a fixed sampling rate
	// from the start of the video into dir.
	SampleRate(ctx context.Context, videoPath, dir string, fps float64, limit int) ([]Frame, error)

	// Reconstruct writes a copy of the video at originalPath to
	// outputPath in which only the frames at the given timestamps are
	// replaced by their watermarked versions; every other frame, the
	// audio track, and container metadata are preserved.
	Reconstruct(ctx context.Context, originalPath, outputPath string, frames []Frame) error
}

// WatermarkResult reports a completed embed call.
type WatermarkResult struct {
	Success           bool   `json:"success"`
	PayloadHash       string `json:"payloadHash"`
	FramesWatermarked int    `json:"framesWatermarked"`
	Algorithm         string `json:"algorithm"`
}

// ExtractionResult reports an extraction attempt. A missing or corrupted
// watermark is an expected outcome: Success is false and Payload nil, but
// no error is raised.
type ExtractionResult struct {
	Success        bool             `json:"success"`
	Payload        *payload.Payload `json:"payload,omitempty"`
	Confidence     float64          `json:"confidence"` // 0-100
	FramesAnalyzed int              `json:"framesAnalyzed"`
}

// VerificationResult reports a verification verdict. Verified requires a
// successful extraction whose videoId and userId exactly match the
// expected payload.
type VerificationResult struct {
	Verified   bool             `json:"verified"`
	Confidence float64          `json:"confidence"`
	Extracted  *payload.Payload `json:"extracted,omitempty"`
}
