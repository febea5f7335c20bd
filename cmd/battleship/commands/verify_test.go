package commands

import (
	"math/big"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battleship/internal/app"
	"battleship/internal/codec"
	"battleship/internal/game"
	"battleship/internal/zk"
)

func TestVerifyPayloadFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("bad root", func(t *testing.T) {
		_, err := verifyPayloadFile("shot.vk", "0xzz", 5, filepath.Join(dir, "none.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid root hex")
	})

	t.Run("missing payload", func(t *testing.T) {
		_, err := verifyPayloadFile("shot.vk", "0x01", 5, filepath.Join(dir, "none.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read payload")
	})

	t.Run("malformed payload", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := verifyPayloadFile("shot.vk", "0x01", 5, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse payload")
	})

	t.Run("index outside the board", func(t *testing.T) {
		path := filepath.Join(dir, "far.json")
		payload := &codec.ShotProofPayload{Public: zk.ShotPublic{Root: big.NewInt(1), Index: 25}}
		require.NoError(t, writePayload(path, payload))
		_, err := verifyPayloadFile("shot.vk", "1", 5, path)
		require.ErrorIs(t, err, app.ErrOutOfRange)
	})
}

func TestProveThenVerifyFile(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	keys := t.TempDir()
	require.NoError(t, zk.EnsureKeys(keys))

	g, err := app.NewGame(5, []game.ShipClass{{Name: "Frigate", Length: 3}}, rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	require.NoError(t, g.Commit())

	frigate, _ := g.Board.Ship("Frigate")
	head, _ := frigate.Head()
	payload, err := app.Prove(g.Commitment, keys, head.X, head.Y)
	require.NoError(t, err)

	path := filepath.Join(keys, "shot.json")
	require.NoError(t, writePayload(path, payload))

	vk := filepath.Join(keys, zk.VKFile)
	res, err := verifyPayloadFile(vk, g.Commitment.RootHex(), 5, path)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), res.Hit)
	assert.Equal(t, head.X, res.X)
	assert.Equal(t, head.Y, res.Y)
	assert.Equal(t, "HIT", verdict(res.Hit))

	other := new(big.Int).Add(g.Commitment.Root, big.NewInt(1))
	_, err = verifyPayloadFile(vk, other.String(), 5, path)
	require.Error(t, err)
}
