package zk

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

const MerkleDepth = 8 // 256 leaves, boards up to 16x16

// ShotCircuit proves that the committed board holds Hit at cell Index,
// without revealing the rest of the layout or the salt.
type ShotCircuit struct {
	Bit  frontend.Variable              `gnark:",secret"`
	Path [MerkleDepth]frontend.Variable `gnark:",secret"`
	Dir  [MerkleDepth]frontend.Variable `gnark:",secret"`
	Salt frontend.Variable              `gnark:",secret"`

	Root  frontend.Variable `gnark:",public"` // MiMC(salt, treeRoot)
	Index frontend.Variable `gnark:",public"`
	Hit   frontend.Variable `gnark:",public"`
}

func (c *ShotCircuit) Define(api frontend.API) error {
	api.AssertIsBoolean(c.Bit)
	api.AssertIsEqual(c.Hit, c.Bit)

	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(c.Bit)
	curr := h.Sum()

	// walk the path; the direction bits spell out the leaf index
	index := frontend.Variable(0)
	weight := 1
	for i := 0; i < MerkleDepth; i++ {
		api.AssertIsBoolean(c.Dir[i])
		index = api.Add(index, api.Mul(c.Dir[i], weight))
		weight *= 2

		left := api.Select(c.Dir[i], c.Path[i], curr)
		right := api.Select(c.Dir[i], curr, c.Path[i])
		h.Reset()
		h.Write(left, right)
		curr = h.Sum()
	}
	api.AssertIsEqual(index, c.Index)

	h.Reset()
	h.Write(c.Salt, curr)
	api.AssertIsEqual(h.Sum(), c.Root)
	return nil
}
