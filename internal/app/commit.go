package app

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"battleship/internal/codec"
	"battleship/internal/game"
	"battleship/internal/merkle"
	"battleship/internal/zk"
)

var (
	ErrBoardTooLarge = errors.New("board too large to commit")
	ErrCommitCorrupt = errors.New("commitment does not match its tree")
)

// Commitment binds a board layout without revealing it. Root is the salted
// root, the only value meant to be published.
type Commitment struct {
	Size int
	Bits []uint8
	Tree *merkle.Tree
	Salt *big.Int
	Root *big.Int
}

func (c *Commitment) RootHex() string { return fmt.Sprintf("0x%x", c.Root) }

// Commit hashes the board occupancy into a MiMC tree and salts its root.
func Commit(b *game.Board) (*Commitment, error) {
	bits := b.Flatten()
	if len(bits) > 1<<zk.MerkleDepth {
		return nil, fmt.Errorf("%w: %dx%d needs %d leaves, max %d", ErrBoardTooLarge, b.Size(), b.Size(), len(bits), 1<<zk.MerkleDepth)
	}
	t, err := merkle.Build(bits, zk.MerkleDepth)
	if err != nil {
		return nil, err
	}

	// salt must be a field element so MiMC accepts it
	var e fr.Element
	if _, err := e.SetRandom(); err != nil {
		return nil, err
	}
	salt := e.BigInt(new(big.Int))

	return &Commitment{
		Size: b.Size(),
		Bits: bits,
		Tree: t,
		Salt: salt,
		Root: merkle.Salted(salt, t.Root()),
	}, nil
}

// Prove answers a shot at (x, y) with a proof against the commitment.
func Prove(c *Commitment, keysDir string, x, y int) (*codec.ShotProofPayload, error) {
	if x < 1 || x > c.Size || y < 1 || y > c.Size {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, x, y)
	}
	idx := (y-1)*c.Size + (x - 1)
	path, dir, err := c.Tree.Path(idx)
	if err != nil {
		return nil, err
	}
	// the circuit would reject it anyway, after an expensive prove
	if !merkle.VerifyPath(c.Bits[idx], path, dir, c.Tree.Root()) {
		return nil, fmt.Errorf("%w: cell (%d, %d)", ErrCommitCorrupt, x, y)
	}
	proof, pub, err := zk.Prove(keysDir, zk.Witness{
		Bit:   c.Bits[idx],
		Index: idx,
		Path:  path,
		Dir:   dir,
		Salt:  c.Salt,
		Root:  c.Root,
	})
	if err != nil {
		return nil, err
	}
	return &codec.ShotProofPayload{Proof: proof, Public: pub}, nil
}

type VerifyResult struct {
	Valid bool
	Hit   uint8
	X, Y  int
}

// Verify checks payload against a published root for a size x size board.
func Verify(vkPath string, root *big.Int, size int, payload codec.ShotProofPayload) (*VerifyResult, error) {
	if payload.Public.Index < 0 || payload.Public.Index >= size*size {
		return nil, fmt.Errorf("%w: index %d", ErrOutOfRange, payload.Public.Index)
	}
	if err := zk.Verify(vkPath, payload.Proof, payload.Public, root); err != nil {
		return nil, err
	}
	return &VerifyResult{
		Valid: true,
		Hit:   payload.Public.Hit,
		X:     payload.Public.Index%size + 1,
		Y:     payload.Public.Index/size + 1,
	}, nil
}

// ParseRoot accepts a 0x-prefixed hex or a decimal root.
func ParseRoot(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	n := new(big.Int)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if _, ok := n.SetString(s[2:], 16); !ok {
			return nil, fmt.Errorf("invalid root hex: %q", s)
		}
		return n, nil
	}
	if _, ok := n.SetString(s, 10); !ok {
		return nil, fmt.Errorf("invalid root: %q", s)
	}
	return n, nil
}
