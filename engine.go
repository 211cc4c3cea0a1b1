package framesig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/framesig/framesig/internal/frame"
	"github.com/framesig/framesig/internal/vote"
	"github.com/framesig/framesig/payload"
)

// Engine runs the embed, extract, and verify pipelines. It holds only
// read-only configuration; concurrent calls are safe.
type Engine struct {
	tc    Transcoder
	cfg   Config
	codec *payload.Codec
	proc  *frame.Processor
	log   logrus.FieldLogger
}

// New creates an Engine using the given transcoder collaborator.
func New(tc Transcoder, opts ...Option) (*Engine, error) {
	if tc == nil {
		return nil, ErrNilTranscoder
	}
	e := &Engine{
		tc:  tc,
		cfg: DefaultConfig(),
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.codec == nil {
		e.codec = payload.NewCodec(payload.WithRepetition(e.cfg.Repetition))
	}
	e.proc = frame.NewProcessor(e.cfg.BlockSize, e.cfg.Bands, e.cfg.StepScale)
	return e, nil
}

// EmbedWatermark watermarks every frameInterval-th frame of the video at
// inputPath and writes the result to outputPath. It fails fast before any
// frame work if the probed duration is zero or unknown; codec failures
// propagate to the caller. The scratch directory is removed on every exit
// path.
func (e *Engine) EmbedWatermark(ctx context.Context, inputPath, outputPath string, p payload.Payload, key string, opts ...EmbedOption) (WatermarkResult, error) {
	params := embedParams{strength: e.cfg.Strength, frameInterval: DefaultFrameInterval}
	for _, opt := range opts {
		if err := opt(&params); err != nil {
			return WatermarkResult{}, err
		}
	}

	info, err := e.tc.Probe(ctx, inputPath)
	if err != nil {
		return WatermarkResult{}, fmt.Errorf("probe video: %w", err)
	}
	if info.Duration <= 0 {
		return WatermarkResult{}, fmt.Errorf("%w: %s", ErrZeroDuration, inputPath)
	}

	bits, err := e.codec.Encode(p, key)
	if err != nil {
		return WatermarkResult{}, err
	}

	dir, cleanup, err := e.scratchDir()
	if err != nil {
		return WatermarkResult{}, err
	}
	defer cleanup()

	fps := info.FrameRate
	if fps <= 0 {
		fps = 30
	}
	count := int(info.Duration * fps / float64(params.frameInterval))
	if count < 1 {
		count = 1
	}
	frames, err := e.tc.SampleEvenly(ctx, inputPath, dir, count)
	if err != nil {
		return WatermarkResult{}, fmt.Errorf("sample frames: %w", err)
	}

	// Frames are independent; embed them in parallel and fail on the
	// first error after all workers drain.
	marked := make([]Frame, len(frames))
	errs := make([]error, len(frames))
	var wg sync.WaitGroup
	for i, f := range frames {
		wg.Add(1)
		go func(i int, f Frame) {
			defer wg.Done()
			dst := filepath.Join(dir, fmt.Sprintf("marked_%04d.png", i))
			if err := e.proc.EmbedFile(f.Path, dst, bits, params.strength); err != nil {
				errs[i] = err
				return
			}
			marked[i] = Frame{Timestamp: f.Timestamp, Path: dst}
			e.log.WithFields(logrus.Fields{
				"frame":     i,
				"timestamp": f.Timestamp,
			}).Debug("frame watermarked")
		}(i, f)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return WatermarkResult{}, fmt.Errorf("watermark frame: %w", err)
		}
	}

	if err := e.tc.Reconstruct(ctx, inputPath, outputPath, marked); err != nil {
		return WatermarkResult{}, fmt.Errorf("reconstruct video: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"input":    inputPath,
		"output":   outputPath,
		"frames":   len(marked),
		"bits":     len(bits),
		"strength": params.strength,
	}).Info("watermark embedded")

	return WatermarkResult{
		Success:           true,
		PayloadHash:       p.Hash(),
		FramesWatermarked: len(marked),
		Algorithm:         Algorithm,
	}, nil
}

// ExtractWatermark samples frames from the video at videoPath and
// attempts to recover the payload. expectedBitLength must equal the bit
// count produced at encode time. A missing or corrupted watermark is
// reported through the result, never as an error; only transcoder
// failures propagate.
func (e *Engine) ExtractWatermark(ctx context.Context, videoPath, key string, expectedBitLength int) (ExtractionResult, error) {
	if expectedBitLength < 1 {
		return ExtractionResult{}, fmt.Errorf("%w: expected bit length must be positive", ErrInvalidOption)
	}

	dir, cleanup, err := e.scratchDir()
	if err != nil {
		return ExtractionResult{}, err
	}
	defer cleanup()

	frames, err := e.tc.SampleRate(ctx, videoPath, dir, e.cfg.ExtractFPS, e.cfg.ExtractFrames)
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("sample frames: %w", err)
	}
	if len(frames) == 0 {
		return ExtractionResult{}, nil
	}

	// Extract candidates in parallel, then vote in frame order so the
	// result does not depend on goroutine scheduling.
	candidates := make([][]bool, len(frames))
	var wg sync.WaitGroup
	for i, f := range frames {
		wg.Add(1)
		go func(i int, f Frame) {
			defer wg.Done()
			bits, err := e.proc.ExtractFile(f.Path, expectedBitLength, e.cfg.Strength)
			if err != nil {
				e.log.WithError(err).WithField("frame", f.Path).Warn("skipping unreadable frame")
				return
			}
			candidates[i] = bits
			e.log.WithFields(logrus.Fields{
				"frame":     i,
				"timestamp": f.Timestamp,
			}).Debug("frame candidate extracted")
		}(i, f)
	}
	wg.Wait()

	tally := vote.NewTally(expectedBitLength)
	for _, c := range candidates {
		if c != nil {
			tally.Add(c)
		}
	}
	if tally.Frames() == 0 {
		return ExtractionResult{}, nil
	}

	p := e.codec.Decode(tally.Majority(), key)
	res := ExtractionResult{
		Success:        p != nil,
		Payload:        p,
		Confidence:     tally.Confidence(),
		FramesAnalyzed: tally.Frames(),
	}
	e.log.WithFields(logrus.Fields{
		"video":      videoPath,
		"frames":     res.FramesAnalyzed,
		"confidence": res.Confidence,
		"success":    res.Success,
	}).Info("watermark extraction finished")
	return res, nil
}

// VerifyWatermark extracts the watermark and compares it against the
// expected payload. Only videoId and userId take part in the verdict.
func (e *Engine) VerifyWatermark(ctx context.Context, videoPath string, expected payload.Payload, key string) (VerificationResult, error) {
	bitLength, err := e.codec.BitLength(expected)
	if err != nil {
		return VerificationResult{}, err
	}
	res, err := e.ExtractWatermark(ctx, videoPath, key, bitLength)
	if err != nil {
		return VerificationResult{}, err
	}
	verified := res.Success && res.Payload != nil &&
		res.Payload.VideoID == expected.VideoID &&
		res.Payload.UserID == expected.UserID
	return VerificationResult{
		Verified:   verified,
		Confidence: res.Confidence,
		Extracted:  res.Payload,
	}, nil
}

// scratchDir creates the per-invocation scratch directory. The name mixes
// a random identifier with a high-resolution timestamp so concurrent
// invocations cannot collide.
func (e *Engine) scratchDir() (string, func(), error) {
	root := e.cfg.TempRoot
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, fmt.Sprintf("framesig-%s-%d", uuid.NewString(), time.Now().UnixNano()))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}
