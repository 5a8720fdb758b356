// Package teletext assembles WST/OP-47 teletext packets — page
// headers, display rows, and X/26 enhancement packets — per
// ETS 300 706, built on the parity package's Hamming codecs.
package teletext

import (
	"strings"

	"github.com/broadcastlabs/op47titler/internal/entities"
	"github.com/broadcastlabs/op47titler/internal/parity"
	"golang.org/x/text/unicode/norm"
)

const rowPayloadWidth = 40

const (
	frameStart = "\x0b\x0b"
	frameEnd   = "\x0a\x0a"
)

// DummyPageNumber and DummySubCode are the fixed header fields of the
// placeholder/keepalive dummy page (spec.md §4.3).
const (
	DummyPageNumber = 0xFF
	DummySubCode    = 0x3F7E
)

// packetPrefix builds the 5-byte packet prefix shared by every
// teletext packet: 0x55 0x55 0x27 followed by two Hamming-8/4-encoded
// address nibbles carrying (magazine, packetNumber) per spec.md §4.3.
func packetPrefix(magazine, packetNumber int) []byte {
	n1 := byte(magazine&0x7) | byte((packetNumber&0x1)<<3)
	n2 := byte((packetNumber >> 1) & 0xF)
	return []byte{
		0x55, 0x55, 0x27,
		parity.Encode84(n1),
		parity.Encode84(n2),
	}
}

// PageEncoder builds WST pages for a fixed magazine/page/startRow
// configuration, owning exactly one X26Encoder per page build.
type PageEncoder struct {
	cfg   *entities.Config
	table CompositionTable
}

func NewPageEncoder(cfg *entities.Config) *PageEncoder {
	return &PageEncoder{
		cfg:   cfg,
		table: BuildCompositionTable(cfg.CaronEncoding, cfg.CaronDiacriticIndex, cfg.G2Variant),
	}
}

// BuildHeaderPacket builds the row-0 header packet per spec.md §4.3.
func (p *PageEncoder) BuildHeaderPacket(page int, pageSubCode int, erase bool) []byte {
	n1 := byte(page & 0x0F)
	n2 := byte((page >> 4) & 0x0F)
	n3 := byte(pageSubCode & 0x0F)
	n4 := byte((pageSubCode >> 4) & 0x07)
	if erase {
		n4 |= 0x08
	}
	n5 := byte((pageSubCode >> 8) & 0x0F)
	n6 := byte((pageSubCode>>12)&0x03) | 0x08
	cb1 := byte(0x03)
	cb2 := byte(0x00)

	pkt := packetPrefix(p.cfg.Magazine, 0)
	for _, n := range [8]byte{n1, n2, n3, n4, n5, n6, cb1, cb2} {
		pkt = append(pkt, parity.Encode84(n))
	}
	for i := 0; i < 32; i++ {
		pkt = append(pkt, parity.OddParity(0x20))
	}
	return pkt
}

// BuildDummyPage builds the fixed placeholder/keepalive page (spec.md §4.3).
func (p *PageEncoder) BuildDummyPage() []byte {
	return p.BuildHeaderPacket(DummyPageNumber, DummySubCode, false)
}

// BuildRowPacket frames, folds/encodes, and parity-codes a single
// display row into its 40-byte payload plus packet prefix.
func (p *PageEncoder) BuildRowPacket(rowLocation int, text string, x26 *X26Encoder) []byte {
	var row string
	switch p.cfg.DiacriticsEncoding {
	case entities.DiacriticsLatin2:
		row = foldToLatin2(text)
	default:
		row = x26.EncodeRow(rowLocation, text)
	}

	framed := []byte(frameStart + row + frameEnd)
	if len(framed) > rowPayloadWidth {
		framed = framed[:rowPayloadWidth]
	}

	payload := make([]byte, rowPayloadWidth)
	for i := range payload {
		payload[i] = 0x20
	}
	copy(payload, framed)

	out := make([]byte, rowPayloadWidth)
	for i, b := range payload {
		out[i] = parity.OddParity(b)
	}

	return append(packetPrefix(p.cfg.Magazine, rowLocation), out...)
}

// EncodeSubtitle builds a full subtitle page: header (erase=1),
// X/26 enhancement packets (when configured), then the display-row
// packets — in that order per spec.md §4.3. Passing zero rows yields
// a single header-only packet, used for the clear command.
func (p *PageEncoder) EncodeSubtitle(rows []string) [][]byte {
	packets := [][]byte{p.BuildHeaderPacket(p.cfg.Page, 0, true)}
	if len(rows) == 0 {
		return packets
	}

	x26 := NewX26Encoder(p.table)
	rowPackets := make([][]byte, 0, len(rows))
	for i, text := range rows {
		rowPackets = append(rowPackets, p.BuildRowPacket(p.cfg.StartRow+i, text, x26))
	}

	if p.cfg.DiacriticsEncoding == entities.DiacriticsX26 {
		packets = append(packets, x26.EnhancementPackets(p.cfg.Magazine)...)
	}
	packets = append(packets, rowPackets...)
	return packets
}

// foldToLatin2 folds non-ASCII source letters to their base ASCII
// letter (dropping accents entirely) and folds out-of-range
// codepoints to '?', per spec.md §4.3's latin2 mode.
func foldToLatin2(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r < 0x80 {
			sb.WriteRune(r)
			continue
		}
		folded := byte('?')
		for _, rr := range norm.NFD.String(string(r)) {
			if rr < 0x80 {
				folded = byte(rr)
				break
			}
		}
		sb.WriteByte(folded)
	}
	return sb.String()
}
