package gctr

import (
	stdaes "crypto/aes"
	"crypto/cipher"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/test"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
	"github.com/vocdoni/gnark-aesgcm/circuits/testutil"
	"github.com/vocdoni/gnark-aesgcm/crypto/gcm"
	"github.com/vocdoni/gnark-aesgcm/util"
)

type inc32Circuit struct {
	J   [16]frontend.Variable
	Out [16]frontend.Variable `gnark:",public"`
	n   uint64
}

func (c *inc32Circuit) Define(api frontend.API) error {
	out := Inc32(api, bits.BlockOfVars(api, c.J), c.n)
	return bits.AssertEqual(api, out.Bytes(), c.Out[:])
}

func TestInc32(t *testing.T) {
	c := qt.New(t)
	field := ecc.BN254.ScalarField()
	wrap := [16]byte{0: 0xca, 11: 0xfe, 12: 0xff, 13: 0xff, 14: 0xff, 15: 0xff}
	for _, tc := range []struct {
		j [16]byte
		n uint64
	}{
		{j: wrap, n: 1},
		{j: wrap, n: 2},
		{j: [16]byte{15: 0x01}, n: 1},
		{j: [16]byte{14: 0x00, 15: 0xff}, n: 1},
		{j: util.Random16(), n: 7},
		{j: util.Random16(), n: 1 << 32},
	} {
		expected := gcm.Inc32(tc.j, tc.n)
		assignment := &inc32Circuit{J: testutil.Vars16(tc.j[:]), Out: testutil.Vars16(expected[:]), n: tc.n}
		err := test.IsSolved(&inc32Circuit{n: tc.n}, assignment, field)
		c.Assert(err, qt.IsNil, qt.Commentf("%x + %d", tc.j, tc.n))
	}

	// the carry out of the counter must not reach the IV bytes
	bad := wrap
	bad[11]++
	bad[12], bad[13], bad[14], bad[15] = 0, 0, 0, 0
	assignment := &inc32Circuit{J: testutil.Vars16(wrap[:]), Out: testutil.Vars16(bad[:]), n: 1}
	c.Assert(test.IsSolved(&inc32Circuit{n: 1}, assignment, field), qt.IsNotNil)
}

func ctrAssignment(key, icb [16]byte, in, out []byte) *Circuit {
	return &Circuit{
		Key:     testutil.Vars16(key[:]),
		Counter: testutil.Vars16(icb[:]),
		In:      testutil.Vars(in),
		Out:     testutil.Vars(out),
	}
}

func TestCircuitMatchesNative(t *testing.T) {
	c := qt.New(t)
	field := ecc.BN254.ScalarField()
	for _, n := range []int{0, 16, 20, 40} {
		key := util.Random16()
		icb := gcm.Inc32(gcm.J0([12]byte(util.RandomBytes(12))), 1)
		pt := util.RandomBytes(n)
		ct, err := gcm.CTR(key, icb, pt)
		c.Assert(err, qt.IsNil)

		err = test.IsSolved(NewCircuit(n), ctrAssignment(key, icb, pt, ct), field)
		c.Assert(err, qt.IsNil, qt.Commentf("%d bytes", n))
	}
}

func TestCircuitMatchesStdlib(t *testing.T) {
	c := qt.New(t)
	key := util.Random16()
	icb := gcm.Inc32(gcm.J0([12]byte(util.RandomBytes(12))), 1)
	pt := util.RandomBytes(20)

	block, err := stdaes.NewCipher(key[:])
	c.Assert(err, qt.IsNil)
	ct := make([]byte, len(pt))
	cipher.NewCTR(block, icb[:]).XORKeyStream(ct, pt)

	err = test.IsSolved(NewCircuit(len(pt)), ctrAssignment(key, icb, pt, ct), ecc.BN254.ScalarField())
	c.Assert(err, qt.IsNil)
}

func TestCircuitInvolution(t *testing.T) {
	c := qt.New(t)
	field := ecc.BN254.ScalarField()
	key := util.Random16()
	icb := util.Random16()
	pt := util.RandomBytes(24)
	ct, err := gcm.CTR(key, icb, pt)
	c.Assert(err, qt.IsNil)

	// the same circuit decrypts
	c.Assert(test.IsSolved(NewCircuit(len(pt)), ctrAssignment(key, icb, ct, pt), field), qt.IsNil)

	ct[23] ^= 0x01
	c.Assert(test.IsSolved(NewCircuit(len(pt)), ctrAssignment(key, icb, ct, pt), field), qt.IsNotNil)
}

func TestCircuitCounterWraparound(t *testing.T) {
	c := qt.New(t)
	key := util.Random16()
	icb := [16]byte{0: 0x01, 12: 0xff, 13: 0xff, 14: 0xff, 15: 0xff}
	pt := util.RandomBytes(32)
	ct, err := gcm.CTR(key, icb, pt)
	c.Assert(err, qt.IsNil)
	c.Assert(test.IsSolved(NewCircuit(len(pt)), ctrAssignment(key, icb, pt, ct), ecc.BN254.ScalarField()), qt.IsNil)
}

func TestCircuitLengthMismatch(t *testing.T) {
	c := qt.New(t)
	_, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &Circuit{
		In:  make([]frontend.Variable, 3),
		Out: make([]frontend.Variable, 4),
	})
	c.Assert(err, qt.ErrorMatches, "(?s).*invalid length.*")
}
