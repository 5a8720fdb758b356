package teletext

import (
	"github.com/broadcastlabs/op47titler/internal/entities"
	"golang.org/x/text/unicode/norm"
)

// Diacritic indices for the two always-composed Czech letter classes,
// per ETS 300 706 §12.3.1's G2 column-4 diacritical mark table.
const (
	DiacriticAcute = 2
	DiacriticRing  = 10
)

// CompositionEntry is built once at encoder construction time from
// the configured caron strategy and is immutable thereafter.
type CompositionEntry struct {
	// Base is the ASCII letter substituted into the row cell, and the
	// triplet data byte, when the entry is composed (not precomposed).
	Base rune
	// DiacriticIndex selects the G2 column-4 diacritic (1..15) for a
	// composed entry. Zero means the entry is precomposed instead.
	DiacriticIndex int
	// G2Code is the 7-bit precomposed G2 codepoint, valid only when
	// DiacriticIndex is zero.
	G2Code byte
}

func (e CompositionEntry) Precomposed() bool {
	return e.DiacriticIndex == 0
}

// CompositionTable maps a Czech source rune to how the X/26 encoder
// should represent it.
type CompositionTable map[rune]CompositionEntry

var acuteLetters = []rune{'á', 'é', 'í', 'ó', 'ú', 'ý', 'Á', 'É', 'Í', 'Ó', 'Ú', 'Ý'}
var ringLetters = []rune{'ů', 'Ů'}
var caronLower = []rune{'č', 'ď', 'ě', 'ň', 'ř', 'š', 'ť', 'ž'}
var caronUpper = []rune{'Č', 'Ď', 'Ě', 'Ň', 'Ř', 'Š', 'Ť', 'Ž'}

type g2CodeSet struct {
	Lower [8]byte
	Upper [8]byte
}

// g2Variants holds the four precomposed caron code-sets from
// ETS 300 706 Annex G2 mapping tables used by deployed decoders; which
// one a given decoder expects is empirically determined (spec.md §9
// Open Questions), so all four are exposed via configuration.
var g2Variants = map[entities.G2Variant]g2CodeSet{
	entities.G2Default: {
		Lower: [8]byte{0x62, 0x64, 0x65, 0x6E, 0x72, 0x73, 0x74, 0x7A},
		Upper: [8]byte{0x42, 0x44, 0x45, 0x4E, 0x52, 0x53, 0x54, 0x5A},
	},
	entities.G2Alt1: {
		Lower: [8]byte{0x63, 0x64, 0x65, 0x6E, 0x72, 0x73, 0x74, 0x79},
		Upper: [8]byte{0x43, 0x44, 0x45, 0x4E, 0x52, 0x53, 0x54, 0x59},
	},
	entities.G2Alt2: {
		Lower: [8]byte{0x68, 0x6A, 0x6B, 0x70, 0x78, 0x79, 0x7A, 0x7E},
		Upper: [8]byte{0x48, 0x4A, 0x4B, 0x50, 0x58, 0x59, 0x5A, 0x5E},
	},
	entities.G2ISO88592: {
		Lower: [8]byte{0x68, 0x6F, 0x6C, 0x72, 0x78, 0x39, 0x3B, 0x2E},
		Upper: [8]byte{0x48, 0x4F, 0x4C, 0x52, 0x58, 0x28, 0x2B, 0x2C},
	},
}

// baseLetter recovers the ASCII base letter of a Czech accented rune
// by Unicode-decomposing it (NFD) and taking the first codepoint
// under 128 — the base letter without its combining diacritic.
func baseLetter(r rune) rune {
	for _, rr := range norm.NFD.String(string(r)) {
		if rr < 0x80 {
			return rr
		}
	}
	return r
}

// BuildCompositionTable constructs the Czech composition table for
// the given caron strategy. Acute-accented and ring letters are
// always composed per spec.md §4.2; caron letters follow caronEncoding.
func BuildCompositionTable(caronEncoding entities.CaronEncoding, caronDiacriticIndex int, variant entities.G2Variant) CompositionTable {
	t := CompositionTable{}

	for _, r := range acuteLetters {
		t[r] = CompositionEntry{Base: baseLetter(r), DiacriticIndex: DiacriticAcute}
	}
	for _, r := range ringLetters {
		t[r] = CompositionEntry{Base: baseLetter(r), DiacriticIndex: DiacriticRing}
	}

	if caronEncoding == entities.CaronG2 {
		set := g2Variants[variant]
		for i, r := range caronLower {
			t[r] = CompositionEntry{G2Code: set.Lower[i]}
		}
		for i, r := range caronUpper {
			t[r] = CompositionEntry{G2Code: set.Upper[i]}
		}
		return t
	}

	for _, r := range caronLower {
		t[r] = CompositionEntry{Base: baseLetter(r), DiacriticIndex: caronDiacriticIndex}
	}
	for _, r := range caronUpper {
		t[r] = CompositionEntry{Base: baseLetter(r), DiacriticIndex: caronDiacriticIndex}
	}
	return t
}
