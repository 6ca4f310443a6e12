package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// HouseSystem selects the house division algorithm run by the engine.
// The core never interprets it beyond forwarding Code().
type HouseSystem string

const (
	Placidus      HouseSystem = "placidus"
	Koch          HouseSystem = "koch"
	Porphyrius    HouseSystem = "porphyrius"
	Regiomontanus HouseSystem = "regiomontanus"
	Campanus      HouseSystem = "campanus"
	Equal         HouseSystem = "equal"
	WholeSign     HouseSystem = "wholeSign"
)

var houseSystemCodes = map[HouseSystem]byte{
	Placidus:      'P',
	Koch:          'K',
	Porphyrius:    'O',
	Regiomontanus: 'R',
	Campanus:      'C',
	Equal:         'A',
	WholeSign:     'W',
}

// HouseSystems lists the supported selectors.
func HouseSystems() []HouseSystem {
	return []HouseSystem{Placidus, Koch, Porphyrius, Regiomontanus, Campanus, Equal, WholeSign}
}

// Code returns the one-letter engine code, or 0 for an unknown system.
func (h HouseSystem) Code() byte { return houseSystemCodes[h] }

// Valid reports whether h is a supported selector.
func (h HouseSystem) Valid() bool {
	_, ok := houseSystemCodes[h]
	return ok
}

// ParseHouseSystem accepts a name (case-insensitive) or a one-letter code.
func ParseHouseSystem(s string) (HouseSystem, error) {
	s = strings.TrimSpace(s)
	for sys, code := range houseSystemCodes {
		if strings.EqualFold(string(sys), s) || (len(s) == 1 && s[0] == code) {
			return sys, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedHouseSystem, s)
}

// HouseBuffers are the engine's output slots. Cusps[1..12] hold house cusps
// (index 0 unused); ASCMC[0] is the ascendant and ASCMC[1] the midheaven.
type HouseBuffers struct {
	Cusps [13]float64
	ASCMC [10]float64
}

// Reset zeroes every slot.
func (b *HouseBuffers) Reset() { *b = HouseBuffers{} }

// HouseLayout is a snapshot of house cusps for a moment and place.
// It is built in one step and never modified afterwards.
type HouseLayout struct {
	Date      time.Time
	Ascendent Degree
	MidHeaven Degree
	First     Degree
	Second    Degree
	Third     Degree
	Fourth    Degree
	Fifth     Degree
	Sixth     Degree
	Seventh   Degree
	Eighth    Degree
	Ninth     Degree
	Tenth     Degree
	Eleventh  Degree
	Twelfth   Degree
}

// Cusps returns the twelve cusps in house order.
func (h HouseLayout) Cusps() [12]Degree {
	return [12]Degree{
		h.First, h.Second, h.Third, h.Fourth, h.Fifth, h.Sixth,
		h.Seventh, h.Eighth, h.Ninth, h.Tenth, h.Eleventh, h.Twelfth,
	}
}

// Cusp returns the cusp of house n (1–12).
func (h HouseLayout) Cusp(n int) (Degree, error) {
	if n < 1 || n > 12 {
		return Degree{}, fmt.Errorf("house %d out of range 1-12", n)
	}
	return h.Cusps()[n-1], nil
}

// houseLayoutJSON is the interchange record. Key spelling ("ascendent",
// "midHeaven") is part of the stored format.
type houseLayoutJSON struct {
	Date      time.Time `json:"date"`
	Ascendent Degree    `json:"ascendent"`
	MidHeaven Degree    `json:"midHeaven"`
	First     Degree    `json:"first"`
	Second    Degree    `json:"second"`
	Third     Degree    `json:"third"`
	Fourth    Degree    `json:"fourth"`
	Fifth     Degree    `json:"fifth"`
	Sixth     Degree    `json:"sixth"`
	Seventh   Degree    `json:"seventh"`
	Eighth    Degree    `json:"eighth"`
	Ninth     Degree    `json:"ninth"`
	Tenth     Degree    `json:"tenth"`
	Eleventh  Degree    `json:"eleventh"`
	Twelfth   Degree    `json:"twelfth"`
}

func (h HouseLayout) MarshalJSON() ([]byte, error) {
	return json.Marshal(houseLayoutJSON(h))
}

func (h *HouseLayout) UnmarshalJSON(b []byte) error {
	var raw houseLayoutJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("unmarshal house layout: %w", err)
	}
	*h = HouseLayout(raw)
	return nil
}

// StoredLayout is a computed layout together with the inputs that produced it.
type StoredLayout struct {
	Layout     HouseLayout `json:"layout"`
	Latitude   float64     `json:"latitude"`
	Longitude  float64     `json:"longitude"`
	System     HouseSystem `json:"system"`
	ComputedAt time.Time   `json:"computed_at"`
}

// HistoryQuery filters stored layouts for one location and system.
type HistoryQuery struct {
	Latitude  float64
	Longitude float64
	System    HouseSystem
	From      time.Time
	To        time.Time
	Limit     int
}
