package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventKindJSON(t *testing.T) {
	raw, err := json.Marshal(Event{Kind: EventShipSunk, Ship: "Frigate", Shots: 7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"sunk","cell":{"x":0,"y":0},"ship":"Frigate","shots":7}`, string(raw))

	for _, k := range []EventKind{EventHit, EventShipSunk, EventGameOver} {
		raw, err := json.Marshal(k)
		require.NoError(t, err)
		var back EventKind
		require.NoError(t, json.Unmarshal(raw, &back))
		assert.Equal(t, k, back)
	}

	_, err = json.Marshal(EventKind(9))
	assert.Error(t, err)
	var k EventKind
	assert.Error(t, json.Unmarshal([]byte(`"splash"`), &k))
}
