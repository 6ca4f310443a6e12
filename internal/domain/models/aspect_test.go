package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAspectKindsAscending(t *testing.T) {
	kinds := AspectKinds()
	require.Len(t, kinds, 10)
	for i := 1; i < len(kinds); i++ {
		assert.Less(t, kinds[i-1].Angle(), kinds[i].Angle())
	}
	assert.Equal(t, Conjunction, kinds[0])
	assert.Equal(t, Opposition, kinds[len(kinds)-1])
}

func TestParseAspectKind(t *testing.T) {
	k, err := ParseAspectKind("Sesquisquare")
	require.NoError(t, err)
	assert.Equal(t, Sesquisquare, k)
	assert.Equal(t, 145.0, k.Angle())

	_, err = ParseAspectKind("biquintile")
	assert.Error(t, err)
}

func TestAspectJSON(t *testing.T) {
	raw, err := json.Marshal(Aspect{Kind: Square, Remainder: -1.25})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"square","angle":90,"remainder":-1.25,"symbol":"◾️"}`, string(raw))

	var a Aspect
	require.NoError(t, json.Unmarshal(raw, &a))
	assert.Equal(t, Aspect{Kind: Square, Remainder: -1.25}, a)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"nope"}`), &a))

	_, err = json.Marshal(Aspect{Kind: AspectKind(42)})
	assert.Error(t, err)
}
