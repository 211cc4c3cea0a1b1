package framesig

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/framesig/framesig/payload"
)

// Option configures an Engine at construction time.
type Option func(*Engine) error

// WithConfig replaces the default algorithm configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) error {
		if err := cfg.validate(); err != nil {
			return err
		}
		e.cfg = cfg
		return nil
	}
}

// WithLogger replaces the default logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) error {
		if log == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidOption)
		}
		e.log = log
		return nil
	}
}

// WithPayloadCodec replaces the payload codec, for example to select
// Golay error correction instead of repetition coding.
func WithPayloadCodec(c *payload.Codec) Option {
	return func(e *Engine) error {
		if c == nil {
			return fmt.Errorf("%w: nil codec", ErrInvalidOption)
		}
		e.codec = c
		return nil
	}
}

// EmbedOption adjusts a single embed call.
type EmbedOption func(*embedParams) error

type embedParams struct {
	strength      float64
	frameInterval int
}

// WithStrength sets the embedding strength. Larger values increase noise
// but improve robustness.
func WithStrength(strength float64) EmbedOption {
	return func(p *embedParams) error {
		if strength <= 0 {
			return fmt.Errorf("%w: strength must be positive", ErrInvalidOption)
		}
		p.strength = strength
		return nil
	}
}

// WithFrameInterval watermarks every n-th frame of the video.
func WithFrameInterval(n int) EmbedOption {
	return func(p *embedParams) error {
		if n < 1 {
			return fmt.Errorf("%w: frame interval must be at least 1", ErrInvalidOption)
		}
		p.frameInterval = n
		return nil
	}
}
