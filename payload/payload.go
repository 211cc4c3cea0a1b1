// Package payload serializes, encrypts, and bit-encodes a provenance
// payload for embedding, and reverses the process on extraction.
package payload

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Payload is the provenance fact carried by a watermark. It is a value
// object: constructed by the caller before embedding, reconstructed as a
// new transient value by extraction.
type Payload struct {
	VideoID          string            `json:"videoId"`
	UserID           string            `json:"userId"`
	Timestamp        int64             `json:"timestamp"`
	BlockchainTxHash string            `json:"blockchainTxHash,omitempty"`
	CustomData       map[string]string `json:"customData,omitempty"`
}

// Marshal returns the canonical serialized form of the payload. Map keys
// are sorted by encoding/json, so the encoding is deterministic.
func (p Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// Hash returns the hex-encoded SHA-256 digest of the canonical form.
func (p Payload) Hash() string {
	data, err := p.Marshal()
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
