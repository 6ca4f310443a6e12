package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AspectKind is one of the ten recognized aspects. Values are ordered by
// target angle, which is also the order windows are matched in.
type AspectKind int

const (
	Conjunction AspectKind = iota
	Semisextile
	Semisquare
	Sextile
	Quintile
	Square
	Trine
	Sesquisquare
	Quincunx
	Opposition
)

// Biquintile (144°) is intentionally not part of the table.

type aspectInfo struct {
	name   string
	angle  float64
	symbol string
}

var aspectTable = [...]aspectInfo{
	Conjunction:  {"conjunction", 0, "☌"},
	Semisextile:  {"semisextile", 30, "⊻"},
	Semisquare:   {"semisquare", 45, "⦣"},
	Sextile:      {"sextile", 60, "﹡"},
	Quintile:     {"quintile", 72, "Q"},
	Square:       {"square", 90, "◾️"},
	Trine:        {"trine", 120, "▵"},
	Sesquisquare: {"sesquisquare", 145, "sS"}, // most fonts lack U+26BC
	Quincunx:     {"quincunx", 150, "⊼"},
	Opposition:   {"opposition", 180, "☍"},
}

// AspectKinds lists every kind in ascending angle order.
func AspectKinds() []AspectKind {
	out := make([]AspectKind, len(aspectTable))
	for i := range aspectTable {
		out[i] = AspectKind(i)
	}
	return out
}

func (k AspectKind) valid() bool { return k >= Conjunction && k <= Opposition }

// Angle returns the exact separation of the aspect in degrees.
func (k AspectKind) Angle() float64 {
	if !k.valid() {
		return 0
	}
	return aspectTable[k].angle
}

// Symbol returns the glyph commonly associated with the aspect.
func (k AspectKind) Symbol() string {
	if !k.valid() {
		return ""
	}
	return aspectTable[k].symbol
}

func (k AspectKind) String() string {
	if !k.valid() {
		return fmt.Sprintf("AspectKind(%d)", int(k))
	}
	return aspectTable[k].name
}

// ParseAspectKind resolves a kind by name, case-insensitively.
func ParseAspectKind(s string) (AspectKind, error) {
	for i, info := range aspectTable {
		if strings.EqualFold(info.name, s) {
			return AspectKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown aspect kind %q", s)
}

// Aspect is a classified relationship: the kind plus the signed deviation from
// exactness (observed separation minus target angle, two decimals).
type Aspect struct {
	Kind      AspectKind
	Remainder float64
}

func (a Aspect) String() string {
	return fmt.Sprintf("%s %+.2f°", a.Kind, a.Remainder)
}

type aspectJSON struct {
	Kind      string  `json:"kind"`
	Angle     float64 `json:"angle"`
	Remainder float64 `json:"remainder"`
	Symbol    string  `json:"symbol,omitempty"`
}

func (a Aspect) MarshalJSON() ([]byte, error) {
	if !a.Kind.valid() {
		return nil, fmt.Errorf("marshal aspect: invalid kind %d", int(a.Kind))
	}
	return json.Marshal(aspectJSON{
		Kind:      a.Kind.String(),
		Angle:     a.Kind.Angle(),
		Remainder: a.Remainder,
		Symbol:    a.Kind.Symbol(),
	})
}

func (a *Aspect) UnmarshalJSON(b []byte) error {
	var raw aspectJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("unmarshal aspect: %w", err)
	}
	kind, err := ParseAspectKind(raw.Kind)
	if err != nil {
		return fmt.Errorf("unmarshal aspect: %w", err)
	}
	*a = Aspect{Kind: kind, Remainder: raw.Remainder}
	return nil
}
