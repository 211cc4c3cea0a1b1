package payload

// BytesToBits expands bytes to bits, most significant bit first.
func BytesToBits(data []byte) []bool {
	bits := make([]bool, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1 == 1)
		}
	}
	return bits
}

// BitsToBytes packs bits back into bytes, most significant bit first.
// Trailing bits that do not fill a whole byte are dropped.
func BitsToBytes(bits []bool) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var v byte
		for j := 0; j < 8; j++ {
			v <<= 1
			if bits[i*8+j] {
				v |= 1
			}
		}
		out[i] = v
	}
	return out
}
