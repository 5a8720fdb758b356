package teletext

import "github.com/broadcastlabs/op47titler/internal/parity"

// X/26 enhancement triplet modes, per ETS 300 706 §12.3.
const (
	ModeSetActivePosition = 0x04
	ModeDiacriticBase     = 0x11
	ModeG2Character       = 0x0F
	ModeTerminationMarker = 0x1F
)

const (
	terminationAddress  = 0x3F
	tripletsPerX26Packet = 13
)

// Triplet is one X/26 enhancement triplet: a 6-bit address, a 5-bit
// mode, and a 7-bit data value packed into an 18-bit word per
// spec.md §4.2.
type Triplet struct {
	Address byte
	Mode    byte
	Data    byte
}

// Pack returns the 18-bit value address | (mode << 6) | (data << 11).
func (t Triplet) Pack() uint32 {
	return uint32(t.Address&0x3F) | (uint32(t.Mode&0x1F) << 6) | (uint32(t.Data&0x7F) << 11)
}

// RowAddress maps a display row location (1..24) to its X/26 address
// per ETS 300 706 §12.3.2: row 24 maps to 40, rows 1..23 map to 41..63.
func RowAddress(rowLocation int) byte {
	if rowLocation == 24 {
		return 40
	}
	return byte(40 + rowLocation)
}

// X26Encoder builds per-row diacritic enhancement triplets while
// substituting composed/precomposed row cells. It is owned for the
// scope of a single page build (PageEncoder.EncodeSubtitle).
type X26Encoder struct {
	table           CompositionTable
	triplets        []Triplet
	rowHasPosition  map[int]bool
}

func NewX26Encoder(table CompositionTable) *X26Encoder {
	return &X26Encoder{
		table:          table,
		rowHasPosition: map[int]bool{},
	}
}

// EncodeRow replaces multi-byte diacritic characters in row with
// their base ASCII letter (or space, for precomposed G2) and
// accumulates the enhancement triplets needed to paint them back in.
func (e *X26Encoder) EncodeRow(rowLocation int, row string) string {
	runes := []rune(row)
	out := make([]rune, len(runes))
	for col, r := range runes {
		entry, ok := e.table[r]
		if !ok {
			out[col] = r
			continue
		}

		if !e.rowHasPosition[rowLocation] {
			e.triplets = append(e.triplets, Triplet{
				Address: RowAddress(rowLocation),
				Mode:    ModeSetActivePosition,
				Data:    0,
			})
			e.rowHasPosition[rowLocation] = true
		}

		if entry.Precomposed() {
			out[col] = ' '
			e.triplets = append(e.triplets, Triplet{
				Address: byte(col),
				Mode:    ModeG2Character,
				Data:    entry.G2Code,
			})
			continue
		}

		out[col] = entry.Base
		e.triplets = append(e.triplets, Triplet{
			Address: byte(col),
			Mode:    byte(ModeDiacriticBase + entry.DiacriticIndex - 1),
			Data:    byte(entry.Base),
		})
	}
	return string(out)
}

// EnhancementPackets materializes the accumulated triplets into
// fully-framed X/26 packets (prefix + designation byte + 13
// Hamming-24/18-encoded triplets, padded with termination fillers),
// one packet per 13-triplet group. Returns nil if no enhancement was
// ever recorded.
func (e *X26Encoder) EnhancementPackets(magazine int) [][]byte {
	if len(e.triplets) == 0 {
		return nil
	}

	var packets [][]byte
	for i := 0; i*tripletsPerX26Packet < len(e.triplets); i++ {
		start := i * tripletsPerX26Packet
		end := start + tripletsPerX26Packet
		if end > len(e.triplets) {
			end = len(e.triplets)
		}
		group := e.triplets[start:end]

		full := make([]Triplet, tripletsPerX26Packet)
		copy(full, group)
		for j := len(group); j < tripletsPerX26Packet; j++ {
			data := byte(0x00)
			if j == tripletsPerX26Packet-1 {
				data = 0xFF
			}
			full[j] = Triplet{Address: terminationAddress, Mode: ModeTerminationMarker, Data: data}
		}

		pkt := make([]byte, 0, 5+1+tripletsPerX26Packet*3)
		pkt = append(pkt, packetPrefix(magazine, 26)...)
		pkt = append(pkt, parity.Encode84(byte(i)))
		for _, t := range full {
			b := parity.Encode2418(t.Pack())
			pkt = append(pkt, b[0], b[1], b[2])
		}
		packets = append(packets, pkt)
	}
	return packets
}
