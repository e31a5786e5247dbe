package gctr

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/gnark-aesgcm/circuits/aes"
	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
)

// Circuit proves that Out is In encrypted with AES-128 in 32-bit counter
// mode starting at Counter. With Counter = inc32(J0) it decrypts the
// ciphertext of a GCM message without checking the tag.
type Circuit struct {
	Key     [16]frontend.Variable
	Counter [16]frontend.Variable `gnark:",public"`
	In      []frontend.Variable
	Out     []frontend.Variable `gnark:",public"`
}

// NewCircuit returns a placeholder for streams of n bytes.
func NewCircuit(n int) *Circuit {
	return &Circuit{
		In:  make([]frontend.Variable, n),
		Out: make([]frontend.Variable, n),
	}
}

func (c *Circuit) Define(api frontend.API) error {
	if len(c.In) != len(c.Out) {
		return fmt.Errorf("%w: input has %d bytes, output %d", bits.ErrInvalidLength, len(c.In), len(c.Out))
	}
	cipher := aes.NewCipher(api, aes.NewSBox(api), bits.BlockOfVars(api, c.Key))
	out := XORKeyStream(api, cipher, bits.BlockOfVars(api, c.Counter), bits.BytesOf(api, c.In))
	return bits.AssertEqual(api, out, c.Out)
}
