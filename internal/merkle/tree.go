// Package merkle commits to a board layout with a fixed-depth binary MiMC
// Merkle tree over BN254, matching the hashing done inside the shot circuit.
package merkle

import (
	"errors"
	"fmt"
	"math/big"

	bnmimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

var (
	ErrTooManyLeaves = errors.New("too many leaves for tree depth")
	ErrIndexRange    = errors.New("leaf index out of range")
)

// encode BN254 field elements as 32-byte big-endian
func feBytes(x *big.Int) []byte {
	b := x.Bytes()
	if len(b) == 32 {
		return b
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// HashLeaf is MiMC(bit).
func HashLeaf(bit uint8) *big.Int {
	h := bnmimc.NewMiMC()
	h.Write(feBytes(new(big.Int).SetUint64(uint64(bit))))
	return new(big.Int).SetBytes(h.Sum(nil))
}

// HashNode is MiMC(left, right).
func HashNode(left, right *big.Int) *big.Int {
	h := bnmimc.NewMiMC()
	h.Write(feBytes(left))
	h.Write(feBytes(right))
	return new(big.Int).SetBytes(h.Sum(nil))
}

// Tree is a complete binary tree stored level by level:
// Levels[0] are the leaf hashes, Levels[Depth] holds the root.
type Tree struct {
	Depth  int          `json:"depth"`
	Levels [][]*big.Int `json:"levels"`
}

// Build hashes bits into the leaves of a tree of the given depth; the
// leaves past len(bits) are padded with HashLeaf(0).
func Build(bits []uint8, depth int) (*Tree, error) {
	size := 1 << depth
	if len(bits) > size {
		return nil, fmt.Errorf("%w: %d leaves, depth %d holds %d", ErrTooManyLeaves, len(bits), depth, size)
	}

	pad := HashLeaf(0)
	leaves := make([]*big.Int, size)
	for i := range leaves {
		if i < len(bits) {
			leaves[i] = HashLeaf(bits[i])
		} else {
			leaves[i] = new(big.Int).Set(pad)
		}
	}

	levels := [][]*big.Int{leaves}
	for n := size; n > 1; n /= 2 {
		prev := levels[len(levels)-1]
		up := make([]*big.Int, n/2)
		for i := range up {
			up[i] = HashNode(prev[2*i], prev[2*i+1])
		}
		levels = append(levels, up)
	}
	return &Tree{Depth: depth, Levels: levels}, nil
}

func (t *Tree) Root() *big.Int { return new(big.Int).Set(t.Levels[t.Depth][0]) }

// Path returns the sibling hashes from leaf idx up to the root, with
// dir[i]=1 when the running node is a right child at level i.
func (t *Tree) Path(idx int) (path []*big.Int, dir []uint8, err error) {
	if idx < 0 || idx >= len(t.Levels[0]) {
		return nil, nil, fmt.Errorf("%w: %d", ErrIndexRange, idx)
	}
	path = make([]*big.Int, 0, t.Depth)
	dir = make([]uint8, 0, t.Depth)
	cur := idx
	for level := 0; level < t.Depth; level++ {
		sib := cur ^ 1
		path = append(path, new(big.Int).Set(t.Levels[level][sib]))
		dir = append(dir, uint8(cur&1))
		cur /= 2
	}
	return path, dir, nil
}

// VerifyPath recomputes the root from a leaf bit and its path.
func VerifyPath(bit uint8, path []*big.Int, dir []uint8, root *big.Int) bool {
	if len(path) != len(dir) {
		return false
	}
	cur := HashLeaf(bit)
	for i := range path {
		if dir[i] == 1 {
			cur = HashNode(path[i], cur)
		} else {
			cur = HashNode(cur, path[i])
		}
	}
	return cur.Cmp(root) == 0
}

// Salted hides a root behind a random salt: MiMC(salt, root).
func Salted(salt, root *big.Int) *big.Int { return HashNode(salt, root) }
