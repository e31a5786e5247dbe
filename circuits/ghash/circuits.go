package ghash

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
	"github.com/vocdoni/gnark-aesgcm/config"
)

// DefaultFoldSize is the number of blocks absorbed by one FoldCircuit.
const DefaultFoldSize = config.FoldSize

// MulCircuit proves Z = X * Y in GF(2^128), with the operands as GCM
// ordered bytes.
type MulCircuit struct {
	X [16]frontend.Variable
	Y [16]frontend.Variable
	Z [16]frontend.Variable `gnark:",public"`
}

func (c *MulCircuit) Define(api frontend.API) error {
	x := FromBlock(bits.BlockOfVars(api, c.X))
	y := FromBlock(bits.BlockOfVars(api, c.Y))
	z := Mul(api, x, y).Block()
	return bits.AssertEqual(api, z.Bytes(), c.Z[:])
}

// FoldCircuit absorbs a group of blocks into a running GHASH accumulator
// under a secret subkey H. Tags exposes the accumulator after each block
// and AccOut is the one after the first Count blocks, so a message whose
// block count is not a multiple of the group size can be proven in chunks.
// Blocks past Count are absorbed into later tags but do not affect AccOut.
// HashKey is the MiMC commitment to H (gcm.HashKeyCommitment); chained
// chunks must expose the same HashKey and link AccOut to the next AccIn.
type FoldCircuit struct {
	H       [16]frontend.Variable
	HashKey frontend.Variable       `gnark:",public"`
	AccIn   [16]frontend.Variable   `gnark:",public"`
	Blocks  [][16]frontend.Variable `gnark:",public"`
	Count   frontend.Variable       `gnark:",public"`
	AccOut  [16]frontend.Variable   `gnark:",public"`
	Tags    [][16]frontend.Variable `gnark:",public"`
}

// NewFoldCircuit returns a placeholder absorbing size blocks.
func NewFoldCircuit(size int) *FoldCircuit {
	return &FoldCircuit{
		Blocks: make([][16]frontend.Variable, size),
		Tags:   make([][16]frontend.Variable, size),
	}
}

func (c *FoldCircuit) Define(api frontend.API) error {
	if len(c.Blocks) == 0 {
		return fmt.Errorf("%w: fold needs at least one block", bits.ErrInvalidLength)
	}
	if len(c.Tags) != len(c.Blocks) {
		return fmt.Errorf("%w: %d blocks but %d tags", bits.ErrInvalidLength, len(c.Blocks), len(c.Tags))
	}
	key := NewKey(api, FromBlock(bits.BlockOfVars(api, c.H)))
	commitment, err := key.Commitment()
	if err != nil {
		return fmt.Errorf("could not commit to the hash key: %w", err)
	}
	api.AssertIsEqual(commitment, c.HashKey)
	blocks := make([]Element, len(c.Blocks))
	for i := range c.Blocks {
		blocks[i] = FromBlock(bits.BlockOfVars(api, c.Blocks[i]))
	}
	tags := key.Fold(FromBlock(bits.BlockOfVars(api, c.AccIn)), blocks...)
	for i := range tags {
		if err := bits.AssertEqual(api, tags[i].Block().Bytes(), c.Tags[i][:]); err != nil {
			return err
		}
	}
	out := SelectTag(api, tags, c.Count).Block()
	return bits.AssertEqual(api, out.Bytes(), c.AccOut[:])
}
