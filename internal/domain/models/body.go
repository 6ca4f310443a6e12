package models

import (
	"fmt"
	"strings"
)

// Body is anything the position engine can place on the ecliptic.
type Body interface {
	// BodyID is the identifier sent to the position engine.
	BodyID() string
	String() string
}

// Planet covers the luminaries and the classical/modern planets.
type Planet int

const (
	Sun Planet = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

var planetNames = [...]string{"sun", "moon", "mercury", "venus", "mars", "jupiter", "saturn", "uranus", "neptune", "pluto"}

func (p Planet) BodyID() string { return p.String() }

func (p Planet) String() string {
	if p < Sun || p > Pluto {
		return fmt.Sprintf("planet(%d)", int(p))
	}
	return planetNames[p]
}

// EngineCode is the Swiss Ephemeris body number.
func (p Planet) EngineCode() int { return int(p) }

// Asteroid covers the minor bodies usually drawn in a chart.
type Asteroid int

const (
	Chiron Asteroid = iota
	Pholus
	Ceres
	Pallas
	Juno
	Vesta
)

var asteroidNames = [...]string{"chiron", "pholus", "ceres", "pallas", "juno", "vesta"}

func (a Asteroid) BodyID() string { return a.String() }

func (a Asteroid) String() string {
	if a < Chiron || a > Vesta {
		return fmt.Sprintf("asteroid(%d)", int(a))
	}
	return asteroidNames[a]
}

// EngineCode is the Swiss Ephemeris body number (chiron = 15 … vesta = 20).
func (a Asteroid) EngineCode() int { return 15 + int(a) }

// LunarPoint covers the calculated lunar points.
type LunarPoint int

const (
	MeanNode LunarPoint = iota
	TrueNode
	MeanApogee
)

var lunarNames = [...]string{"meanNode", "trueNode", "meanApogee"}

func (l LunarPoint) BodyID() string { return l.String() }

func (l LunarPoint) String() string {
	if l < MeanNode || l > MeanApogee {
		return fmt.Sprintf("lunarPoint(%d)", int(l))
	}
	return lunarNames[l]
}

// EngineCode is the Swiss Ephemeris body number (mean node = 10).
func (l LunarPoint) EngineCode() int { return 10 + int(l) }

// FixedStar is looked up by name in the engine's star catalogue.
type FixedStar string

const fixedStarPrefix = "star:"

func (s FixedStar) BodyID() string { return fixedStarPrefix + string(s) }
func (s FixedStar) String() string { return string(s) }

// ParseBody resolves an identifier such as "moon", "Ceres", "trueNode" or
// "star:Regulus". Unknown names return ErrUnknownBody.
func ParseBody(s string) (Body, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(strings.ToLower(s), fixedStarPrefix); ok {
		name := strings.TrimSpace(s[len(fixedStarPrefix):])
		if rest == "" || name == "" {
			return nil, fmt.Errorf("%w: empty star name", ErrUnknownBody)
		}
		return FixedStar(name), nil
	}
	for i, n := range planetNames {
		if strings.EqualFold(n, s) {
			return Planet(i), nil
		}
	}
	for i, n := range asteroidNames {
		if strings.EqualFold(n, s) {
			return Asteroid(i), nil
		}
	}
	for i, n := range lunarNames {
		if strings.EqualFold(n, s) {
			return LunarPoint(i), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBody, s)
}

// Pair groups the two bodies being compared. The order carries no meaning.
type Pair[A, B Body] struct {
	A A
	B B
}

// NewPair builds a Pair.
func NewPair[A, B Body](a A, b B) Pair[A, B] {
	return Pair[A, B]{A: a, B: b}
}
