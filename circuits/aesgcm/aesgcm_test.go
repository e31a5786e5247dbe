package aesgcm

import (
	stdaes "crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/test"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/gnark-aesgcm/circuits/testutil"
	"github.com/vocdoni/gnark-aesgcm/crypto/gcm"
	"github.com/vocdoni/gnark-aesgcm/log"
	"github.com/vocdoni/gnark-aesgcm/util"
)

func checkSolved(c *qt.C, in *Inputs) error {
	placeholder, err := in.Placeholder()
	c.Assert(err, qt.IsNil)
	assignment, err := in.Assignment()
	c.Assert(err, qt.IsNil)
	return test.IsSolved(placeholder, assignment, ecc.BN254.ScalarField())
}

func stdSeal(c *qt.C, key, iv, pt, aad []byte) []byte {
	b, err := stdaes.NewCipher(key)
	c.Assert(err, qt.IsNil)
	aead, err := cipher.NewGCM(b)
	c.Assert(err, qt.IsNil)
	return aead.Seal(nil, iv, pt, aad)
}

func TestNISTVectors(t *testing.T) {
	c := qt.New(t)
	for _, v := range gcm.NISTVectors {
		c.Run(v.Name, func(c *qt.C) {
			in, err := NewInputs(v.Key, v.IV, v.PlainText, v.AAD)
			c.Assert(err, qt.IsNil)
			c.Assert(in.CipherText.Hex(), qt.Equals, v.CipherText.Hex())
			c.Assert(in.AuthTag.Hex(), qt.Equals, v.Tag.Hex())
			c.Assert(checkSolved(c, in), qt.IsNil)
		})
	}
}

func TestLengths(t *testing.T) {
	c := qt.New(t)
	for _, p := range []Params{
		{AADLen: 0, PlainTextLen: 16},
		{AADLen: 16, PlainTextLen: 0},
		{AADLen: 16, PlainTextLen: 32},
		{AADLen: 20, PlainTextLen: 20},
		{AADLen: 32, PlainTextLen: 20},
		{AADLen: 0, PlainTextLen: 40},
		{AADLen: 40, PlainTextLen: 20},
	} {
		c.Run(p.Name(), func(c *qt.C) {
			key, iv := util.RandomBytes(KeySize), util.RandomBytes(IVSize)
			pt, aad := util.RandomBytes(p.PlainTextLen), util.RandomBytes(p.AADLen)
			in, err := NewInputs(key, iv, pt, aad)
			c.Assert(err, qt.IsNil)
			c.Assert(in.Params(), qt.Equals, p)

			sealed := stdSeal(c, key, iv, pt, aad)
			c.Assert([]byte(in.CipherText), qt.DeepEquals, sealed[:len(pt)])
			c.Assert([]byte(in.AuthTag), qt.DeepEquals, sealed[len(pt):])
			c.Assert(checkSolved(c, in), qt.IsNil)
		})
	}
}

// TestReferenceMessages uses two ascii messages: two full blocks, and a
// block and a half.
func TestReferenceMessages(t *testing.T) {
	c := qt.New(t)
	key := []byte("1111111111111111")
	iv := []byte("111111111111")
	for _, msg := range []string{"testhello0000000testhello0000000", "testhello0000testhello0000"} {
		in, err := NewInputs(key, iv, []byte(msg), nil)
		c.Assert(err, qt.IsNil)
		sealed := stdSeal(c, key, iv, []byte(msg), nil)
		c.Assert(append([]byte(in.CipherText), in.AuthTag...), qt.DeepEquals, sealed)
		c.Assert(checkSolved(c, in), qt.IsNil, qt.Commentf("message %q", msg))
	}
}

func TestInvalidWitness(t *testing.T) {
	c := qt.New(t)
	in, err := NewInputs(util.RandomBytes(KeySize), util.RandomBytes(IVSize), util.RandomBytes(20), util.RandomBytes(4))
	c.Assert(err, qt.IsNil)
	placeholder, err := in.Placeholder()
	c.Assert(err, qt.IsNil)
	field := ecc.BN254.ScalarField()

	// wrong tag
	assignment, err := in.Assignment()
	c.Assert(err, qt.IsNil)
	assignment.AuthTag[0] = int(in.AuthTag[0] ^ 0x80)
	c.Assert(test.IsSolved(placeholder, assignment, field), qt.IsNotNil)

	// wrong ciphertext
	assignment, err = in.Assignment()
	c.Assert(err, qt.IsNil)
	assignment.CipherText[19] = int(in.CipherText[19] ^ 0x01)
	c.Assert(test.IsSolved(placeholder, assignment, field), qt.IsNotNil)

	// a plaintext byte out of range
	assignment, err = in.Assignment()
	c.Assert(err, qt.IsNil)
	assignment.PlainText[0] = 256 + int(in.PlainText[0])
	c.Assert(test.IsSolved(placeholder, assignment, field), qt.IsNotNil)

	// an aad byte out of range
	assignment, err = in.Assignment()
	c.Assert(err, qt.IsNil)
	assignment.AAD[3] = 1 << 8
	c.Assert(test.IsSolved(placeholder, assignment, field), qt.IsNotNil)
}

func TestDiffusion(t *testing.T) {
	c := qt.New(t)
	key, iv := util.RandomBytes(KeySize), util.RandomBytes(IVSize)
	pt, aad := util.RandomBytes(20), util.RandomBytes(20)
	in, err := NewInputs(key, iv, pt, aad)
	c.Assert(err, qt.IsNil)

	again, err := NewInputs(key, iv, pt, aad)
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.DeepEquals, in)

	for _, flip := range []func() (*Inputs, error){
		func() (*Inputs, error) { return NewInputs(util.FlipBit(key, util.RandomInt(0, 128)), iv, pt, aad) },
		func() (*Inputs, error) { return NewInputs(key, util.FlipBit(iv, util.RandomInt(0, 96)), pt, aad) },
		func() (*Inputs, error) { return NewInputs(key, iv, util.FlipBit(pt, util.RandomInt(0, 160)), aad) },
		func() (*Inputs, error) { return NewInputs(key, iv, pt, util.FlipBit(aad, util.RandomInt(0, 160))) },
	} {
		other, err := flip()
		c.Assert(err, qt.IsNil)
		c.Assert(other.AuthTag, qt.Not(qt.DeepEquals), in.AuthTag)

		// the old tag does not verify for the modified inputs
		other.AuthTag = in.AuthTag
		c.Assert(checkSolved(c, other), qt.IsNotNil)
	}
}

func TestInputsJSON(t *testing.T) {
	c := qt.New(t)
	in, err := NewInputs(util.RandomBytes(KeySize), util.RandomBytes(IVSize), util.RandomBytes(5), util.RandomBytes(3))
	c.Assert(err, qt.IsNil)
	data, err := json.Marshal(in)
	c.Assert(err, qt.IsNil)
	log.Debugw("inputs", "json", string(data))

	decoded := &Inputs{}
	c.Assert(json.Unmarshal(data, decoded), qt.IsNil)
	c.Assert(decoded, qt.DeepEquals, in)
	c.Assert(decoded.Check(), qt.IsNil)

	decoded.CipherText[0] ^= 0xff
	c.Assert(errors.Is(decoded.Check(), ErrInputsMismatch), qt.IsTrue)
}

func TestInputsSizes(t *testing.T) {
	c := qt.New(t)
	_, err := NewInputs(make([]byte, 15), make([]byte, IVSize), nil, nil)
	c.Assert(errors.Is(err, ErrInvalidParams), qt.IsTrue)
	_, err = NewInputs(make([]byte, KeySize), make([]byte, 16), nil, nil)
	c.Assert(errors.Is(err, ErrInvalidParams), qt.IsTrue)

	in, err := NewInputs(make([]byte, KeySize), make([]byte, IVSize), make([]byte, 4), nil)
	c.Assert(err, qt.IsNil)
	in.CipherText = in.CipherText[:3]
	_, err = in.Assignment()
	c.Assert(errors.Is(err, ErrInvalidParams), qt.IsTrue)
}

func TestParams(t *testing.T) {
	c := qt.New(t)
	p := Params{AADLen: 20, PlainTextLen: 40}
	c.Assert(p.Validate(), qt.IsNil)
	c.Assert(p.Name(), qt.Equals, "aesgcm128-aad20-pt40")
	c.Assert(p.NumAADBlocks(), qt.Equals, 2)
	c.Assert(p.NumTextBlocks(), qt.Equals, 3)
	c.Assert(p.NumHashBlocks(), qt.Equals, 6)
	c.Assert(Params{}.NumHashBlocks(), qt.Equals, 1)

	_, err := NewCircuit(Params{AADLen: -1})
	c.Assert(errors.Is(err, ErrInvalidParams), qt.IsTrue)
	_, err = NewCircuit(Params{PlainTextLen: -16})
	c.Assert(errors.Is(err, ErrInvalidParams), qt.IsTrue)

	if strconv.IntSize == 64 {
		maxLen := MaxPlainTextLen
		c.Assert(Params{PlainTextLen: int(maxLen)}.Validate(), qt.IsNil)
		err = Params{PlainTextLen: int(maxLen) + 1}.Validate()
		c.Assert(errors.Is(err, ErrInvalidParams), qt.IsTrue)
	}
}

func TestDefineLengthMismatch(t *testing.T) {
	c := qt.New(t)
	_, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &Circuit{
		PlainText:  make([]frontend.Variable, 2),
		CipherText: make([]frontend.Variable, 3),
	})
	c.Assert(err, qt.ErrorMatches, "(?s).*invalid length.*")
}

func TestCompileDeterministic(t *testing.T) {
	c := qt.New(t)
	compile := func() int {
		placeholder, err := NewCircuit(Params{})
		c.Assert(err, qt.IsNil)
		ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, placeholder)
		c.Assert(err, qt.IsNil)
		return ccs.GetNbConstraints()
	}
	first := compile()
	c.Assert(compile(), qt.Equals, first)
	c.Logf("empty message: %d constraints", first)
}

func TestCircuitProve(t *testing.T) {
	testutil.SkipUnlessCircuitTests(t)
	testutil.EnableCompilerLog()
	v := gcm.NISTVectors[2]
	in, err := NewInputs(v.Key, v.IV, v.PlainText, v.AAD)
	if err != nil {
		t.Fatal(err)
	}
	placeholder, err := in.Placeholder()
	if err != nil {
		t.Fatal(err)
	}
	assignment, err := in.Assignment()
	if err != nil {
		t.Fatal(err)
	}
	assert := test.NewAssert(t)
	assert.ProverSucceeded(placeholder, assignment,
		test.WithCurves(ecc.BN254),
		test.WithBackends(backend.GROTH16))
}
