package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDegreeNormalizes(t *testing.T) {
	cases := map[float64]float64{
		0:      0,
		359.5:  359.5,
		360:    0,
		725:    5,
		-30:    330,
		-720:   0,
		-1e-20: 0,
	}
	for in, want := range cases {
		assert.Equal(t, want, NewDegree(in).Value(), "input %v", in)
	}
}

func TestDegreeComponents(t *testing.T) {
	d := NewDegree(135.5)
	assert.Equal(t, Leo, d.Sign())
	assert.Equal(t, 15, d.DegreeInSign())
	assert.Equal(t, 30, d.Minute())
	assert.Equal(t, 0, d.Second())
	assert.Equal(t, "15°30'00\" Leo", d.String())

	assert.Equal(t, Pisces, NewDegree(359.99).Sign())
	assert.Equal(t, "♓", Pisces.Glyph())
}

func TestDegreeJSON(t *testing.T) {
	raw, err := json.Marshal(NewDegree(-45))
	require.NoError(t, err)
	assert.Equal(t, "315", string(raw))

	var d Degree
	require.NoError(t, json.Unmarshal([]byte("370.25"), &d))
	assert.Equal(t, 10.25, d.Value())

	assert.Error(t, json.Unmarshal([]byte(`"north"`), &d))
}
