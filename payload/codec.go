package payload

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

const (
	// NonceSize is the AES-GCM nonce length in bytes (96 bits).
	NonceSize = 12
	// TagSize is the authentication tag length in bytes (128 bits).
	TagSize = 16
	// envelopeOverhead is the fixed prefix ahead of the ciphertext.
	envelopeOverhead = NonceSize + TagSize

	// DefaultRepetition is the default repetition factor R.
	DefaultRepetition = 3
)

// DefaultGolaySeed seeds the deterministic shuffle of the Golay mode.
var DefaultGolaySeed int64 = 7031622440

// Option selects the error correction layer of a Codec.
type Option func(*Codec)

// WithRepetition selects repetition coding with factor r. Values below 1
// fall back to the default. An odd factor is recommended so majority votes
// cannot tie.
func WithRepetition(r int) Option {
	return func(c *Codec) {
		if r < 1 {
			r = DefaultRepetition
		}
		c.ecc = repetition(r)
	}
}

// WithGolay selects Golay(23,12) error correction with a deterministic
// shuffle seeded by seed. Compared to repetition coding it corrects up to
// three bit errors per 23-bit code word at a similar expansion rate.
func WithGolay(seed int64) Option {
	return func(c *Codec) {
		c.ecc = shuffledGolay{seed: seed}
	}
}

// Codec encrypts a Payload into the bit sequence that frames carry:
// nonce (96 bits) || tag (128 bits) || ciphertext, expanded by the error
// correction layer. Decoding never fails loudly; a watermark that cannot
// be recovered is an expected operating condition, not a program error.
type Codec struct {
	ecc ecc
}

// NewCodec returns a Codec. Without options it uses repetition coding
// with the default factor.
func NewCodec(opts ...Option) *Codec {
	c := new(Codec)
	for _, opt := range opts {
		opt(c)
	}
	if c.ecc == nil {
		c.ecc = repetition(DefaultRepetition)
	}
	return c
}

// Encode serializes and encrypts p under a key derived from key, and
// returns the bit sequence to embed. The nonce is fresh per call, so two
// encodings of the same payload differ.
func (c *Codec) Encode(p Payload, key string) ([]bool, error) {
	plain, err := p.Marshal()
	if err != nil {
		return nil, fmt.Errorf("serialize payload: %w", err)
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	sealed := gcm.Seal(nil, nonce, plain, nil)
	ciphertext, tag := sealed[:len(sealed)-TagSize], sealed[len(sealed)-TagSize:]

	raw := make([]byte, 0, envelopeOverhead+len(ciphertext))
	raw = append(raw, nonce...)
	raw = append(raw, tag...)
	raw = append(raw, ciphertext...)
	return c.ecc.encode(raw), nil
}

// Decode collapses the error correction layer, splits the envelope, and
// attempts authenticated decryption. It returns nil on any failure: tag
// mismatch, truncated envelope, or unparseable plaintext.
func (c *Codec) Decode(bits []bool, key string) *Payload {
	raw := c.ecc.decode(bits)
	if len(raw) < envelopeOverhead {
		return nil
	}
	nonce := raw[:NonceSize]
	tag := raw[NonceSize:envelopeOverhead]
	ciphertext := raw[envelopeOverhead:]

	gcm, err := newGCM(key)
	if err != nil {
		return nil
	}
	sealed := make([]byte, 0, len(ciphertext)+TagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil
	}
	var p Payload
	if err := json.Unmarshal(plain, &p); err != nil {
		return nil
	}
	return &p
}

// BitLength reports the bit count Encode produces for p. Extraction must
// be given this same value; the embedded and expected sizes have to match.
func (c *Codec) BitLength(p Payload) (int, error) {
	plain, err := p.Marshal()
	if err != nil {
		return 0, fmt.Errorf("serialize payload: %w", err)
	}
	return c.ecc.bitLength(envelopeOverhead + len(plain)), nil
}

// newGCM derives a 256-bit key by hashing the caller-supplied key string,
// so any string is a valid key.
func newGCM(key string) (cipher.AEAD, error) {
	sum := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return gcm, nil
}
