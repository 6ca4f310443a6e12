package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBody(t *testing.T) {
	cases := map[string]Body{
		"sun":          Sun,
		"MOON":         Moon,
		"Ceres":        Ceres,
		"truenode":     TrueNode,
		"meanApogee":   MeanApogee,
		"star:Regulus": FixedStar("Regulus"),
	}
	for in, want := range cases {
		got, err := ParseBody(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseBodyUnknown(t *testing.T) {
	for _, in := range []string{"", "vulcan", "star:"} {
		_, err := ParseBody(in)
		assert.ErrorIs(t, err, ErrUnknownBody, in)
	}
}

func TestBodyIdentity(t *testing.T) {
	assert.Equal(t, "star:Spica", FixedStar("Spica").BodyID())
	assert.Equal(t, 15, Chiron.EngineCode())
	assert.Equal(t, 11, TrueNode.EngineCode())
	assert.Equal(t, 9, Pluto.EngineCode())

	p := NewPair(Sun, FixedStar("Algol"))
	assert.Equal(t, "sun", p.A.BodyID())
	assert.Equal(t, "star:Algol", p.B.BodyID())
}
