package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHouseSystem(t *testing.T) {
	sys, err := ParseHouseSystem("Regiomontanus")
	require.NoError(t, err)
	assert.Equal(t, Regiomontanus, sys)
	assert.Equal(t, byte('R'), sys.Code())

	sys, err = ParseHouseSystem("W")
	require.NoError(t, err)
	assert.Equal(t, WholeSign, sys)

	_, err = ParseHouseSystem("topocentric")
	assert.ErrorIs(t, err, ErrUnsupportedHouseSystem)

	for _, s := range HouseSystems() {
		assert.True(t, s.Valid())
		assert.NotZero(t, s.Code())
	}
}

func TestHouseLayoutCusp(t *testing.T) {
	l := HouseLayout{First: NewDegree(1), Seventh: NewDegree(181), Twelfth: NewDegree(331)}
	c, err := l.Cusp(7)
	require.NoError(t, err)
	assert.Equal(t, 181.0, c.Value())

	c, err = l.Cusp(12)
	require.NoError(t, err)
	assert.Equal(t, 331.0, c.Value())

	_, err = l.Cusp(13)
	assert.Error(t, err)
}

func TestHouseLayoutDecodeNormalizes(t *testing.T) {
	raw := `{"date":"2020-01-01T00:00:00Z","ascendent":-10,"midHeaven":450,"first":360,
		"second":30,"third":60,"fourth":90,"fifth":120,"sixth":150,"seventh":180,
		"eighth":210,"ninth":240,"tenth":270,"eleventh":300,"twelfth":330}`
	var l HouseLayout
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	assert.Equal(t, 350.0, l.Ascendent.Value())
	assert.Equal(t, 90.0, l.MidHeaven.Value())
	assert.Equal(t, 0.0, l.First.Value())
	assert.True(t, l.Date.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))

	again, err := json.Marshal(l)
	require.NoError(t, err)
	var back HouseLayout
	require.NoError(t, json.Unmarshal(again, &back))
	assert.Equal(t, l.Cusps(), back.Cusps())
}
