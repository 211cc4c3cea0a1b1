package framesig

import "fmt"

// Defaults for per-call embedding parameters.
const (
	DefaultStrength      = 40.0
	DefaultFrameInterval = 30
)

// Config holds the process-wide, read-only algorithm parameters. The zero
// value is not usable; start from DefaultConfig.
type Config struct {
	// BlockSize is the side length of the square luminance block the
	// transform operates on. Must be a positive multiple of 4.
	BlockSize int

	// Bands is the number of coefficient regions written per frame.
	// Zero selects every usable region.
	Bands int

	// StepScale converts the caller's strength into the quantization
	// step: step = strength * StepScale.
	StepScale float64

	// Strength is the embedding strength used when a call does not
	// override it. Extraction always quantizes with this strength, so
	// an embed call that overrides it must be paired with an engine
	// configured to match.
	Strength float64

	// Repetition is the repetition factor R of the payload codec.
	Repetition int

	// ExtractFrames is the number of frames sampled for extraction.
	ExtractFrames int

	// ExtractFPS is the fixed sampling rate used for extraction.
	ExtractFPS float64

	// TempRoot is the parent directory for per-invocation scratch
	// directories. Empty means the OS temp directory.
	TempRoot string
}

func DefaultConfig() Config {
	return Config{
		BlockSize:     64,
		Bands:         0,
		StepScale:     0.1,
		Strength:      DefaultStrength,
		Repetition:    3,
		ExtractFrames: 10,
		ExtractFPS:    1.0,
	}
}

func (c Config) validate() error {
	if c.BlockSize < 8 || c.BlockSize%4 != 0 {
		return fmt.Errorf("%w: block size %d must be a multiple of 4 and at least 8", ErrInvalidConfig, c.BlockSize)
	}
	if c.StepScale <= 0 {
		return fmt.Errorf("%w: step scale must be positive", ErrInvalidConfig)
	}
	if c.Strength <= 0 {
		return fmt.Errorf("%w: strength must be positive", ErrInvalidConfig)
	}
	if c.Repetition < 1 {
		return fmt.Errorf("%w: repetition factor must be at least 1", ErrInvalidConfig)
	}
	if c.ExtractFrames < 1 {
		return fmt.Errorf("%w: extraction frame count must be at least 1", ErrInvalidConfig)
	}
	if c.ExtractFPS <= 0 {
		return fmt.Errorf("%w: extraction sampling rate must be positive", ErrInvalidConfig)
	}
	return nil
}
