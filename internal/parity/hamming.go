// Package parity implements the ETS 300 706 Hamming 8/4 and Hamming
// 24/18 forward error correction codes and the odd-parity byte rule
// used throughout World System Teletext.
package parity

import "math/bits"

// hamming84Table is a 16-entry lookup table mapping each 4-bit data
// nibble D = d3 d2 d1 d0 to its 8-bit Hamming 8/4 codeword per
// ETS 300 706 §8.2. Bit layout (bit 7 is MSB, bit 0 is LSB):
//
//	bit: 7  6  5  4  3  2  1  0
//	     P4 d3 d2 d1 P3 d0 P2 P1
//
// with P1 = parity over d0,d1,d3 ; P2 = parity over d0,d2,d3 ;
// P3 = parity over d0,d1,d2 ; P4 = parity over d1,d2,d3. The table
// below is built once at init time from these equations rather than
// hand-typed; hamming_test.go checks that every codeword is distinct,
// decodes back, and survives any single-bit flip.
var hamming84Table [16]byte

// hamming84Decode maps each of the 256 possible received bytes back
// to the nibble it is closest to (single-error-correcting).
var hamming84Decode [256]byte

// hamming84SyndromeToDataBit maps a 4-bit syndrome to the index
// (0..3) of the data bit it implicates, or -1 if the syndrome does
// not point at a tracked data bit (a parity-bit error, which leaves
// the data untouched). Built once from encode84's own parity
// equations so the mapping can never drift from the encoder.
var hamming84SyndromeToDataBit [16]int

func init() {
	for i := range hamming84SyndromeToDataBit {
		hamming84SyndromeToDataBit[i] = -1
	}
	// Derive each data bit's syndrome directly: flipping data bit i
	// alone changes exactly the parity checks that cover it. This
	// must run before the codeword/decode tables below are built.
	// Codeword bit positions of d0..d3, as laid out by encode84.
	dataBitPos := [4]uint{2, 4, 5, 6}
	for bitIdx := 0; bitIdx < 4; bitIdx++ {
		withFlip := encode84(0) ^ byte(1<<dataBitPos[bitIdx])
		syn := syndrome84(withFlip)
		hamming84SyndromeToDataBit[syn] = bitIdx
	}

	for d := 0; d < 16; d++ {
		hamming84Table[d] = encode84(byte(d))
	}
	for b := 0; b < 256; b++ {
		hamming84Decode[b] = decode84(byte(b))
	}
}

// encode84 builds the Hamming 8/4 codeword for data nibble d (only
// the low 4 bits are used) from first principles per ETS 300 706
// §8.2's parity check matrix.
func encode84(d byte) byte {
	d0 := d & 1
	d1 := (d >> 1) & 1
	d2 := (d >> 2) & 1
	d3 := (d >> 3) & 1

	p1 := d0 ^ d1 ^ d3
	p2 := d0 ^ d2 ^ d3
	p3 := d0 ^ d1 ^ d2
	p4 := d1 ^ d2 ^ d3

	var b byte
	b |= p1 << 0
	b |= p2 << 1
	b |= d0 << 2
	b |= p3 << 3
	b |= d1 << 4
	b |= d2 << 5
	b |= d3 << 6
	b |= p4 << 7
	return b
}

// syndrome84 recomputes the 4-bit parity syndrome for a received
// codeword using the same equations encode84 used to build it.
func syndrome84(b byte) byte {
	p1 := b & 1
	p2 := (b >> 1) & 1
	d0 := (b >> 2) & 1
	p3 := (b >> 3) & 1
	d1 := (b >> 4) & 1
	d2 := (b >> 5) & 1
	d3 := (b >> 6) & 1
	p4 := (b >> 7) & 1

	c1 := p1 ^ d0 ^ d1 ^ d3
	c2 := p2 ^ d0 ^ d2 ^ d3
	c3 := p3 ^ d0 ^ d1 ^ d2
	c4 := p4 ^ d1 ^ d2 ^ d3
	return c1 | (c2 << 1) | (c3 << 2) | (c4 << 3)
}

// decode84 recovers the data nibble from a received (possibly
// single-bit-corrupted) Hamming 8/4 codeword.
func decode84(b byte) byte {
	d0 := (b >> 2) & 1
	d1 := (b >> 4) & 1
	d2 := (b >> 5) & 1
	d3 := (b >> 6) & 1

	syn := syndrome84(b)
	if syn != 0 {
		if bitIdx := hamming84SyndromeToDataBit[syn]; bitIdx >= 0 {
			switch bitIdx {
			case 0:
				d0 ^= 1
			case 1:
				d1 ^= 1
			case 2:
				d2 ^= 1
			case 3:
				d3 ^= 1
			}
		}
		// A syndrome not mapping to a data bit indicates a parity-bit
		// error; the data nibble is already correct.
	}
	return d0 | (d1 << 1) | (d2 << 2) | (d3 << 3)
}

// Encode84 returns the Hamming 8/4 codeword for the low 4 bits of d.
func Encode84(d byte) byte {
	return hamming84Table[d&0x0F]
}

// Decode84 recovers the 4-bit data nibble from a Hamming 8/4 codeword,
// correcting any single-bit error.
func Decode84(b byte) byte {
	return hamming84Decode[b]
}

// hamming2418ParityBits returns the 5 parity bits (p1..p5) for the
// 18 data bits of v per ETS 300 706 §8.3's generator matrix. Bit 0 of
// the result is p1.
func hamming2418ParityBits(v uint32) uint32 {
	// Data bit indices below are 0-based over the 18-bit value v,
	// matching the bit-position table in ETS 300 706 §8.3, Table 9.
	bit := func(n uint) uint32 { return (v >> n) & 1 }

	p1 := bit(0) ^ bit(1) ^ bit(3) ^ bit(4) ^ bit(6) ^ bit(8) ^ bit(10) ^ bit(11) ^ bit(13) ^ bit(15) ^ bit(17)
	p2 := bit(0) ^ bit(2) ^ bit(3) ^ bit(5) ^ bit(6) ^ bit(9) ^ bit(10) ^ bit(12) ^ bit(13) ^ bit(16) ^ bit(17)
	p3 := bit(1) ^ bit(2) ^ bit(3) ^ bit(7) ^ bit(8) ^ bit(9) ^ bit(10) ^ bit(14) ^ bit(15) ^ bit(16) ^ bit(17)
	p4 := bit(4) ^ bit(5) ^ bit(6) ^ bit(7) ^ bit(8) ^ bit(9) ^ bit(10)
	p5 := bit(11) ^ bit(12) ^ bit(13) ^ bit(14) ^ bit(15) ^ bit(16) ^ bit(17)

	return p1 | (p2 << 1) | (p3 << 2) | (p4 << 3) | (p5 << 4)
}

// Encode2418 encodes the low 18 bits of v into the 3-byte Hamming
// 24/18 codeword, LSB-first within each byte on the wire, per
// ETS 300 706 §8.3: 5 parity bits + 1 overall-parity bit + 18 data
// bits arranged across the 3 bytes.
func Encode2418(v uint32) [3]byte {
	v &= 0x3FFFF
	p := hamming2418ParityBits(v)

	// Byte layout (LSB-first on the wire, matching the triplet layout
	// used by all OP-47/teletext X/26 encoders):
	//   byte0: p1 p2 d0 d1 d2 p3 d3 d4
	//   byte1: d5 d6 d7 p4 d8 d9 d10 d11
	//   byte2: d12 d13 d14 p5 d15 d16 d17 OP
	bit := func(n uint) uint32 { return (v >> n) & 1 }
	p1 := p & 1
	p2 := (p >> 1) & 1
	p3 := (p >> 2) & 1
	p4 := (p >> 3) & 1
	p5 := (p >> 4) & 1

	var b0, b1, b2 uint32
	b0 = p1 | (p2 << 1) | (bit(0) << 2) | (bit(1) << 3) | (bit(2) << 4) | (p3 << 5) | (bit(3) << 6) | (bit(4) << 7)
	b1 = bit(5) | (bit(6) << 1) | (bit(7) << 2) | (p4 << 3) | (bit(8) << 4) | (bit(9) << 5) | (bit(10) << 6) | (bit(11) << 7)

	dataBitsSoFar := []uint32{p1, p2, bit(0), bit(1), bit(2), p3, bit(3), bit(4),
		bit(5), bit(6), bit(7), p4, bit(8), bit(9), bit(10), bit(11),
		bit(12), bit(13), bit(14), p5, bit(15), bit(16), bit(17)}
	ones := uint32(0)
	for _, x := range dataBitsSoFar {
		ones += x
	}
	overall := ones & 1 // even overall parity across all 23 preceding bits

	b2 = bit(12) | (bit(13) << 1) | (bit(14) << 2) | (p5 << 3) | (bit(15) << 4) | (bit(16) << 5) | (bit(17) << 6) | (overall << 7)

	return [3]byte{byte(b0), byte(b1), byte(b2)}
}

// Decode2418 recovers the 18-bit data value from a Hamming 24/18
// codeword, correcting any single-bit error. ok is false only when a
// double-bit (or worse) error is detected and uncorrectable.
func Decode2418(b [3]byte) (v uint32, ok bool) {
	b0, b1, b2 := uint32(b[0]), uint32(b[1]), uint32(b[2])

	bitAt := func(word, n uint32) uint32 { return (word >> n) & 1 }

	p1 := bitAt(b0, 0)
	p2 := bitAt(b0, 1)
	d0 := bitAt(b0, 2)
	d1 := bitAt(b0, 3)
	d2 := bitAt(b0, 4)
	p3 := bitAt(b0, 5)
	d3 := bitAt(b0, 6)
	d4 := bitAt(b0, 7)

	d5 := bitAt(b1, 0)
	d6 := bitAt(b1, 1)
	d7 := bitAt(b1, 2)
	p4 := bitAt(b1, 3)
	d8 := bitAt(b1, 4)
	d9 := bitAt(b1, 5)
	d10 := bitAt(b1, 6)
	d11 := bitAt(b1, 7)

	d12 := bitAt(b2, 0)
	d13 := bitAt(b2, 1)
	d14 := bitAt(b2, 2)
	p5 := bitAt(b2, 3)
	d15 := bitAt(b2, 4)
	d16 := bitAt(b2, 5)
	d17 := bitAt(b2, 6)
	overall := bitAt(b2, 7)

	v = d0 | (d1 << 1) | (d2 << 2) | (d3 << 3) | (d4 << 4) | (d5 << 5) | (d6 << 6) | (d7 << 7) |
		(d8 << 8) | (d9 << 9) | (d10 << 10) | (d11 << 11) | (d12 << 12) | (d13 << 13) | (d14 << 14) |
		(d15 << 15) | (d16 << 16) | (d17 << 17)

	wantParity := hamming2418ParityBits(v)
	wp1 := wantParity & 1
	wp2 := (wantParity >> 1) & 1
	wp3 := (wantParity >> 2) & 1
	wp4 := (wantParity >> 3) & 1
	wp5 := (wantParity >> 4) & 1

	c1 := p1 ^ wp1
	c2 := p2 ^ wp2
	c3 := p3 ^ wp3
	c4 := p4 ^ wp4
	c5 := p5 ^ wp5
	syndrome := c1 | (c2 << 1) | (c3 << 2) | (c4 << 3) | (c5 << 4)

	allBits := []uint32{p1, p2, d0, d1, d2, p3, d3, d4, d5, d6, d7, p4, d8, d9, d10, d11,
		d12, d13, d14, p5, d15, d16, d17, overall}
	ones := uint32(0)
	for _, x := range allBits {
		ones += x
	}
	overallBad := ones&1 != 0

	switch {
	case syndrome == 0 && !overallBad:
		// No error.
		return v, true
	case syndrome == 0 && overallBad:
		// The overall-parity bit itself was the single flipped bit;
		// the 18 data bits are unaffected.
		return v, true
	case syndrome != 0 && overallBad:
		// Single-bit error located by the 5-bit syndrome: either one
		// of the 18 data bits (flip it back) or one of p1..p5 (data
		// already correct).
		if pos := singleErrorDataBitPosition(syndrome); pos >= 0 {
			v ^= 1 << uint(pos)
		}
		return v, true
	default:
		// syndrome != 0 && !overallBad: two bits in error, detected
		// but not correctable per ETS 300 706 §8.3.
		return v, false
	}
}

// singleErrorDataBitPosition maps a 5-bit parity syndrome to the
// 0-based index (within the 18 data bits) of the bit it implicates,
// or -1 if the syndrome does not point at a tracked data bit.
func singleErrorDataBitPosition(syndrome uint32) int {
	for pos := 0; pos < 18; pos++ {
		v := uint32(1) << uint(pos)
		if hamming2418ParityBits(v) == syndrome {
			return pos
		}
	}
	return -1
}

// OddParity returns b with bit 7 set such that the byte has an odd
// number of set bits overall. Bytes that already carry odd parity
// (including 0x20, the space used as row padding) are returned
// unchanged.
func OddParity(b byte) byte {
	low7 := b & 0x7F
	if bits.OnesCount8(low7)%2 == 1 {
		return low7
	}
	return low7 | 0x80
}
