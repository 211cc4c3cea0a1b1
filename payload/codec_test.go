package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePayloads = []struct {
	name string
	p    Payload
}{
	{"minimal", Payload{VideoID: "v1", UserID: "u1", Timestamp: 1700000000}},
	{"with_tx_hash", Payload{
		VideoID:          "vid-8f3a",
		UserID:           "user-77",
		Timestamp:        1700000001,
		BlockchainTxHash: "0x5c2a9bbd4ef1a0d86c93f2e6c1f7a85b",
	}},
	{"with_custom_data", Payload{
		VideoID:   "v2",
		UserID:    "u2",
		Timestamp: 1699999999,
		CustomData: map[string]string{
			"license": "cc-by-4.0",
			"origin":  "upload",
		},
	}},
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codecs := map[string]*Codec{
		"repetition": NewCodec(),
		"golay":      NewCodec(WithGolay(DefaultGolaySeed)),
	}
	for cname, codec := range codecs {
		for _, tt := range samplePayloads {
			t.Run(cname+"/"+tt.name, func(t *testing.T) {
				bits, err := codec.Encode(tt.p, "secret-key")
				require.NoError(t, err)

				want, err := codec.BitLength(tt.p)
				require.NoError(t, err)
				assert.Equal(t, want, len(bits))

				got := codec.Decode(bits, "secret-key")
				require.NotNil(t, got)
				assert.Equal(t, tt.p, *got)
			})
		}
	}
}

func TestEncodeIsNonDeterministic(t *testing.T) {
	// The nonce is fresh per call, so two encodings differ.
	codec := NewCodec()
	p := samplePayloads[0].p
	a, err := codec.Encode(p, "k")
	require.NoError(t, err)
	b, err := codec.Encode(p, "k")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecodeWrongKey(t *testing.T) {
	codec := NewCodec()
	bits, err := codec.Encode(samplePayloads[0].p, "secret-key")
	require.NoError(t, err)
	assert.Nil(t, codec.Decode(bits, "other-key"))
}

func TestBitFlipTolerance(t *testing.T) {
	codec := NewCodec() // repetition, R=3
	p := samplePayloads[0].p
	bits, err := codec.Encode(p, "k")
	require.NoError(t, err)

	// Flipping one of the three copies of every bit leaves the decoded
	// value unchanged.
	damaged := make([]bool, len(bits))
	copy(damaged, bits)
	for i := 0; i < len(damaged); i += 3 {
		damaged[i] = !damaged[i]
	}
	got := codec.Decode(damaged, "k")
	require.NotNil(t, got)
	assert.Equal(t, p, *got)

	// Flipping two of the three copies flips the bit, which breaks
	// authentication.
	copy(damaged, bits)
	damaged[0] = !damaged[0]
	damaged[1] = !damaged[1]
	assert.Nil(t, codec.Decode(damaged, "k"))
}

func TestTamperDetection(t *testing.T) {
	// Corrupting any single byte of the envelope makes decoding return
	// nil, never a plausible-looking wrong payload.
	codec := NewCodec()
	bits, err := codec.Encode(samplePayloads[0].p, "k")
	require.NoError(t, err)

	rawLen := len(bits) / 8 / DefaultRepetition
	regions := map[string]int{
		"nonce":      0,
		"tag":        NonceSize,
		"ciphertext": envelopeOverhead,
	}
	for name, byteIdx := range regions {
		t.Run(name, func(t *testing.T) {
			require.Less(t, byteIdx, rawLen)
			damaged := make([]bool, len(bits))
			copy(damaged, bits)
			// Flip all repeated copies of the byte's first bit so the
			// majority vote cannot repair it.
			for r := 0; r < DefaultRepetition; r++ {
				at := byteIdx*8*DefaultRepetition + r
				damaged[at] = !damaged[at]
			}
			assert.Nil(t, codec.Decode(damaged, "k"))
		})
	}
}

func TestGolayCorrectsBitErrors(t *testing.T) {
	codec := NewCodec(WithGolay(DefaultGolaySeed))
	p := samplePayloads[1].p
	bits, err := codec.Encode(p, "k")
	require.NoError(t, err)

	// Up to three errors per code word are correctable; three flips in
	// total are therefore always repaired.
	for _, at := range []int{0, len(bits) / 2, len(bits) - 1} {
		bits[at] = !bits[at]
	}
	got := codec.Decode(bits, "k")
	require.NotNil(t, got)
	assert.Equal(t, p, *got)
}

func TestDecodeDegenerateInput(t *testing.T) {
	codec := NewCodec()
	assert.Nil(t, codec.Decode(nil, "k"))
	assert.Nil(t, codec.Decode(make([]bool, 17), "k"))
	assert.Nil(t, codec.Decode(make([]bool, 8*DefaultRepetition), "k"))
}

func TestRepetitionMajority(t *testing.T) {
	r := repetition(3)
	bits := r.encode([]byte{0b10110010})
	assert.Len(t, bits, 24)

	// Ties resolve toward zero with an even factor.
	even := repetition(4)
	tie := []bool{true, true, false, false, true, false, true, false}
	collapsed := even.decode(append(tie, make([]bool, 24)...))
	assert.Equal(t, []byte{0}, collapsed)
}

func TestHash(t *testing.T) {
	a := samplePayloads[0].p.Hash()
	assert.Len(t, a, 64)
	assert.Equal(t, a, samplePayloads[0].p.Hash())
	assert.NotEqual(t, a, samplePayloads[1].p.Hash())
}

func TestBitsRoundTrip(t *testing.T) {
	test := [][]byte{
		{0b10101010},
		{0b11110000, 0b00001111},
		[]byte("framesig"),
	}
	for _, data := range test {
		assert.Equal(t, data, BitsToBytes(BytesToBits(data)))
	}
	assert.Empty(t, BitsToBytes(BytesToBits(nil)))
}
