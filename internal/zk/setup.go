package zk

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

const (
	VKFile = "shot.vk"
	PKFile = "shot.pk"
)

var ErrRootMismatch = errors.New("root mismatch: proof root != committed root")

// ShotPublic is what a verifier learns from a shot proof.
type ShotPublic struct {
	Root  *big.Int `json:"root"`
	Index int      `json:"index"`
	Hit   uint8    `json:"hit"`
}

// Witness is the prover's full knowledge for one cell.
type Witness struct {
	Bit   uint8
	Index int
	Path  []*big.Int
	Dir   []uint8
	Salt  *big.Int
	Root  *big.Int // salted
}

var (
	compileOnce sync.Once
	compiled    constraint.ConstraintSystem
	compileErr  error
)

func compileShot() (constraint.ConstraintSystem, error) {
	compileOnce.Do(func() {
		var circuit ShotCircuit
		compiled, compileErr = frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	})
	return compiled, compileErr
}

// EnsureKeys makes sure dir holds a parsable proving/verifying key pair,
// running the groth16 setup when it does not.
func EnsureKeys(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	vkPath := filepath.Join(dir, VKFile)
	pkPath := filepath.Join(dir, PKFile)

	if _, err := readVK(vkPath); err == nil {
		if _, err := readPK(pkPath); err == nil {
			return nil
		}
	}

	cs, err := compileShot()
	if err != nil {
		return err
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return err
	}
	if err := writeKey(vkPath, vk); err != nil {
		return err
	}
	return writeKey(pkPath, pk)
}

// Prove produces a serialized groth16 proof for one cell.
func Prove(keysDir string, w Witness) ([]byte, ShotPublic, error) {
	if len(w.Path) != MerkleDepth || len(w.Dir) != MerkleDepth {
		return nil, ShotPublic{}, fmt.Errorf("bad path length: %d", len(w.Path))
	}

	var assign ShotCircuit
	assign.Bit = w.Bit
	for i := 0; i < MerkleDepth; i++ {
		assign.Path[i] = w.Path[i]
		assign.Dir[i] = w.Dir[i]
	}
	assign.Salt = w.Salt
	assign.Root = w.Root
	assign.Index = w.Index
	assign.Hit = w.Bit

	cs, err := compileShot()
	if err != nil {
		return nil, ShotPublic{}, err
	}
	pk, err := readPK(filepath.Join(keysDir, PKFile))
	if err != nil {
		return nil, ShotPublic{}, err
	}

	fullWit, err := frontend.NewWitness(&assign, ecc.BN254.ScalarField())
	if err != nil {
		return nil, ShotPublic{}, err
	}
	proof, err := groth16.Prove(cs, pk, fullWit)
	if err != nil {
		return nil, ShotPublic{}, err
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, ShotPublic{}, err
	}
	return buf.Bytes(), ShotPublic{Root: new(big.Int).Set(w.Root), Index: w.Index, Hit: w.Bit}, nil
}

// Verify checks a shot proof against the root the defender committed to.
// A nil error means the proof is valid.
func Verify(vkPath string, proofBin []byte, pub ShotPublic, root *big.Int) error {
	if pub.Root == nil {
		return errors.New("proof payload missing public root")
	}
	if pub.Root.Cmp(root) != 0 {
		return ErrRootMismatch
	}
	if pub.Hit > 1 {
		return fmt.Errorf("invalid hit public output: %d", pub.Hit)
	}

	var pubAssign ShotCircuit
	pubAssign.Root = root
	pubAssign.Index = pub.Index
	pubAssign.Hit = pub.Hit

	pubWit, err := frontend.NewWitness(&pubAssign, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return err
	}

	vk, err := readVK(vkPath)
	if err != nil {
		return err
	}
	pr := groth16.NewProof(ecc.BN254)
	if _, err := pr.ReadFrom(bytes.NewReader(proofBin)); err != nil {
		return err
	}
	return groth16.Verify(pr, vk, pubWit)
}

// --- key IO helpers using io.WriterTo / io.ReaderFrom ---

func writeKey(path string, k io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = k.WriteTo(f)
	return err
}

func readVK(path string) (groth16.VerifyingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	vk := groth16.NewVerifyingKey(ecc.BN254)
	_, err = vk.ReadFrom(f)
	return vk, err
}

func readPK(path string) (groth16.ProvingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pk := groth16.NewProvingKey(ecc.BN254)
	_, err = pk.ReadFrom(f)
	return pk, err
}
