package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// ZodiacSign is the 30° ecliptic segment a Degree falls in.
type ZodiacSign int

const (
	Aries ZodiacSign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [...]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var signGlyphs = [...]string{"♈", "♉", "♊", "♋", "♌", "♍", "♎", "♏", "♐", "♑", "♒", "♓"}

func (s ZodiacSign) String() string {
	if s < Aries || s > Pisces {
		return fmt.Sprintf("ZodiacSign(%d)", int(s))
	}
	return signNames[s]
}

// Glyph returns the unicode symbol of the sign.
func (s ZodiacSign) Glyph() string {
	if s < Aries || s > Pisces {
		return ""
	}
	return signGlyphs[s]
}

// Degree is an ecliptic position normalized into [0, 360).
// The zero value is 0° Aries.
type Degree struct {
	value float64
}

// NewDegree normalizes v modulo 360 into [0, 360).
func NewDegree(v float64) Degree {
	d := math.Mod(v, 360)
	if d < 0 {
		d += 360
	}
	// -tiny + 360 rounds to exactly 360; d == 0 also folds -0 into +0
	if d >= 360 || d == 0 {
		d = 0
	}
	return Degree{value: d}
}

// Value returns the normalized angle in degrees.
func (d Degree) Value() float64 { return d.value }

// Sign returns the zodiac sign containing d.
func (d Degree) Sign() ZodiacSign { return ZodiacSign(int(d.value / 30)) }

// DegreeInSign returns whole degrees past the start of the sign (0–29).
func (d Degree) DegreeInSign() int {
	return int(math.Mod(d.value, 30))
}

// Minute returns the arc-minutes component (0–59).
func (d Degree) Minute() int {
	frac := d.value - math.Floor(d.value)
	return int(frac * 60)
}

// Second returns the arc-seconds component (0–59).
func (d Degree) Second() int {
	frac := d.value*60 - math.Floor(d.value*60)
	return int(frac * 60)
}

// String renders d as e.g. `15°32'10" Leo`.
func (d Degree) String() string {
	return fmt.Sprintf("%d°%02d'%02d\" %s", d.DegreeInSign(), d.Minute(), d.Second(), d.Sign())
}

// MarshalJSON encodes the normalized value as a bare number.
func (d Degree) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.value)
}

// UnmarshalJSON decodes a number and normalizes it.
func (d *Degree) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("degree: %w", err)
	}
	*d = NewDegree(v)
	return nil
}
