package payload

import (
	"encoding/binary"
	"math/rand"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/golay"
)

// ecc turns the encrypted envelope into the bit sequence that is embedded
// into frames, and recovers the envelope from a possibly corrupted copy.
type ecc interface {
	encode(raw []byte) []bool
	decode(bits []bool) []byte
	bitLength(rawLen int) int
}

var _ ecc = (repetition)(0)

// repetition repeats each bit R times; decoding collapses each run by
// majority vote, ties resolving to 0.
type repetition int

func (r repetition) encode(raw []byte) []bool {
	n := int(r)
	bits := BytesToBits(raw)
	out := make([]bool, 0, len(bits)*n)
	for _, b := range bits {
		for i := 0; i < n; i++ {
			out = append(out, b)
		}
	}
	return out
}

func (r repetition) decode(bits []bool) []byte {
	n := int(r)
	collapsed := make([]bool, len(bits)/n)
	for i := range collapsed {
		var ones int
		for j := 0; j < n; j++ {
			if bits[i*n+j] {
				ones++
			}
		}
		collapsed[i] = ones*2 > n
	}
	return BitsToBytes(collapsed)
}

func (r repetition) bitLength(rawLen int) int {
	return rawLen * 8 * int(r)
}

var _ ecc = (*shuffledGolay)(nil)

// shuffledGolay encodes the envelope with the Golay(23,12) code and
// deterministically shuffles the result so that burst damage in one image
// region spreads across many code words. The envelope is prefixed with its
// byte length so decoding can strip the code padding.
type shuffledGolay struct {
	seed int64
}

func (sg shuffledGolay) encode(raw []byte) []bool {
	framed := make([]byte, 2+len(raw))
	binary.BigEndian.PutUint16(framed, uint16(len(raw)))
	copy(framed[2:], raw)

	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, b := range BytesToBits(framed) {
		w.WriteBool(b)
	}
	var encoded []uint64
	enc := golay.NewEncoder(&encoded)
	_ = enc.Encode(w.Data(), w.Bits())
	encodedLen := enc.Bits()

	index := sg.permutation(encodedLen)
	r := bitstream.NewBitReader(encoded, 0, 0)
	out := make([]bool, encodedLen)
	for i := range out {
		out[i], _ = r.ReadBitAt(index[i])
	}
	return out
}

func (sg shuffledGolay) decode(bits []bool) []byte {
	// Undo the shuffle, then the code.
	index := sg.permutation(len(bits))
	w := bitstream.NewBitWriter[uint64](0, 0)
	for i, b := range bits {
		w.WriteBitAt(index[i], b)
	}
	var decoded []uint64
	dec := golay.NewDecoder(w.Data(), w.Bits())
	if err := dec.Decode(&decoded); err != nil {
		return nil
	}

	r := bitstream.NewBitReader(decoded, 0, 0)
	total := len(decoded) * 64
	data := make([]bool, total)
	for i := range data {
		data[i], _ = r.ReadBitAt(i)
	}
	framed := BitsToBytes(data)
	if len(framed) < 2 {
		return nil
	}
	rawLen := int(binary.BigEndian.Uint16(framed))
	if rawLen > len(framed)-2 {
		return nil
	}
	return framed[2 : 2+rawLen]
}

func (sg shuffledGolay) bitLength(rawLen int) int {
	return golay.EncodedBits((2 + rawLen) * 8)
}

func (sg shuffledGolay) permutation(length int) []int {
	index := make([]int, length)
	for i := range index {
		index[i] = i
	}
	rd := rand.New(rand.NewSource(sg.seed))
	rd.Shuffle(length, func(i, j int) {
		index[i], index[j] = index[j], index[i]
	})
	return index
}
