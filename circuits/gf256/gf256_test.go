package gf256

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/test"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
	"github.com/vocdoni/gnark-aesgcm/crypto/aes128"
)

type mulConstCircuit struct {
	In  [256]frontend.Variable
	Out [256]frontend.Variable
	c   uint8
}

func (c *mulConstCircuit) Define(api frontend.API) error {
	for i := range c.In {
		res := MulConst(api, bits.ByteOf(api, c.In[i]), c.c)
		api.AssertIsEqual(res.Value(api), c.Out[i])
	}
	return nil
}

func mulConstAssignment(k uint8) *mulConstCircuit {
	w := &mulConstCircuit{c: k}
	for i := range w.In {
		w.In[i] = i
		w.Out[i] = int(aes128.Mul(byte(i), k))
	}
	return w
}

// TestMulConstExhaustive checks every byte against the native table for the
// MixColumns constants.
func TestMulConstExhaustive(t *testing.T) {
	c := qt.New(t)
	for _, k := range []uint8{1, 2, 3, 0x13} {
		err := test.IsSolved(&mulConstCircuit{c: k}, mulConstAssignment(k), ecc.BN254.ScalarField())
		c.Assert(err, qt.IsNil, qt.Commentf("constant %02x", k))
	}
}

func TestMulConstWrongOutput(t *testing.T) {
	c := qt.New(t)
	w := mulConstAssignment(2)
	w.Out[0x80] = 0x00 // 0x80*2 is 0x1b after reduction
	err := test.IsSolved(&mulConstCircuit{c: 2}, w, ecc.BN254.ScalarField())
	c.Assert(err, qt.IsNotNil)
}

type xtimesCircuit struct {
	In, Out frontend.Variable
}

func (c *xtimesCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(XTimes(api, bits.ByteOf(api, c.In)).Value(api), c.Out)
	return nil
}

func TestXTimesConstraints(t *testing.T) {
	c := qt.New(t)
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &xtimesCircuit{})
	c.Assert(err, qt.IsNil)
	// 8 from the decomposition, one per reduced bit above bit 0 and the
	// final packing
	c.Assert(ccs.GetNbConstraints() < 20, qt.IsTrue, qt.Commentf("got %d constraints", ccs.GetNbConstraints()))

	err = test.IsSolved(&xtimesCircuit{}, &xtimesCircuit{In: 0x57, Out: 0xae}, ecc.BN254.ScalarField())
	c.Assert(err, qt.IsNil)
	err = test.IsSolved(&xtimesCircuit{}, &xtimesCircuit{In: 0x8e, Out: 0x07}, ecc.BN254.ScalarField())
	c.Assert(err, qt.IsNil)
}
