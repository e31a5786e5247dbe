package aes

import (
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
)

// Wrapper proves that CipherText is the encryption of PlainText under Key,
// for a single block.
type Wrapper struct {
	Key        [16]frontend.Variable
	PlainText  [16]frontend.Variable
	CipherText [16]frontend.Variable `gnark:",public"`
}

func (c *Wrapper) Define(api frontend.API) error {
	cipher := NewCipher(api, NewSBox(api), bits.BlockOfVars(api, c.Key))
	out := cipher.Encrypt(bits.BlockOfVars(api, c.PlainText))
	return bits.AssertEqual(api, out.Bytes(), c.CipherText[:])
}
