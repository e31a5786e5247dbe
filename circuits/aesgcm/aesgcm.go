// Package aesgcm assembles the AES-128-GCM authenticated encryption of
// NIST SP 800-38D from the AES, counter mode and GHASH gadgets, and
// provides the top level circuit proving that a public ciphertext and tag
// were produced from a secret key and plaintext.
package aesgcm

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/gnark-aesgcm/circuits/aes"
	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
	"github.com/vocdoni/gnark-aesgcm/circuits/gctr"
	"github.com/vocdoni/gnark-aesgcm/circuits/ghash"
)

const (
	KeySize = 16
	IVSize  = 12
	TagSize = 16
)

// GCM is an AES-128-GCM instance keyed inside the circuit. The round keys
// and the GHASH table of H are derived once and shared by every message
// sealed with it.
type GCM struct {
	api    frontend.API
	cipher *aes.Cipher
	hash   *ghash.Key
}

// New expands the key and derives the hash subkey H = E(K, 0^128).
func New(api frontend.API, key bits.Block) *GCM {
	cipher := aes.NewCipher(api, aes.NewSBox(api), key)
	h := cipher.Encrypt(bits.ConstBlock([bits.BlockSize]byte{}))
	return &GCM{
		api:    api,
		cipher: cipher,
		hash:   ghash.NewKey(api, ghash.FromBlock(h)),
	}
}

// J0 is the pre-counter block IV || 0^31 || 1.
func J0(iv [IVSize]bits.Byte) bits.Block {
	var j bits.Block
	copy(j[:], iv[:])
	for k := IVSize; k < bits.BlockSize-1; k++ {
		j[k] = bits.ConstByte(0)
	}
	j[bits.BlockSize-1] = bits.ConstByte(1)
	return j
}

// LenBlock is the constant block with the 64-bit big-endian bit lengths of
// the AAD and of the ciphertext.
func LenBlock(aadLen, ctLen int) bits.Block {
	var b [bits.BlockSize]byte
	binary.BigEndian.PutUint64(b[:8], uint64(aadLen)*8)
	binary.BigEndian.PutUint64(b[8:], uint64(ctLen)*8)
	return bits.ConstBlock(b)
}

// Seal encrypts plainText starting at inc32(J0) and authenticates aad and
// the ciphertext. The ciphertext has the length of plainText.
func (g *GCM) Seal(iv [IVSize]bits.Byte, plainText, aad []bits.Byte) ([]bits.Byte, bits.Block) {
	j0 := J0(iv)
	ct := gctr.XORKeyStream(g.api, g.cipher, gctr.Inc32(g.api, j0, 1), plainText)
	return ct, g.Tag(j0, aad, ct)
}

// Tag computes T = GCTR(K, J0, GHASH(H, pad(aad) || pad(ct) || LenBlock)).
// Padding bytes are constant zeros and do not count in the lengths.
func (g *GCM) Tag(j0 bits.Block, aad, ct []bits.Byte) bits.Block {
	blocks := bits.Blocks(aad)
	blocks = append(blocks, bits.Blocks(ct)...)
	blocks = append(blocks, LenBlock(len(aad), len(ct)))

	elements := make([]ghash.Element, len(blocks))
	for i, b := range blocks {
		elements[i] = ghash.FromBlock(b)
	}
	s := g.hash.Sum(elements...).Block()

	var tag bits.Block
	copy(tag[:], gctr.XORKeyStream(g.api, g.cipher, j0, s[:]))
	return tag
}

// Encrypt is Seal over byte variables: every input is range checked and
// the outputs are packed back into byte values.
func Encrypt(api frontend.API, key [KeySize]frontend.Variable, iv [IVSize]frontend.Variable,
	plainText, aad []frontend.Variable,
) ([]frontend.Variable, [TagSize]frontend.Variable, error) {
	var tagVars [TagSize]frontend.Variable
	if err := (Params{AADLen: len(aad), PlainTextLen: len(plainText)}).Validate(); err != nil {
		return nil, tagVars, err
	}
	var ivBytes [IVSize]bits.Byte
	for i := range iv {
		ivBytes[i] = bits.ByteOf(api, iv[i])
	}
	g := New(api, bits.BlockOfVars(api, key))
	ct, tag := g.Seal(ivBytes, bits.BytesOf(api, plainText), bits.BytesOf(api, aad))
	copy(tagVars[:], bits.Values(api, tag[:]))
	return bits.Values(api, ct), tagVars, nil
}

// Circuit proves knowledge of Key and PlainText such that the AES-128-GCM
// encryption under IV with AAD is CipherText with tag AuthTag.
type Circuit struct {
	Key        [KeySize]frontend.Variable
	IV         [IVSize]frontend.Variable `gnark:",public"`
	PlainText  []frontend.Variable
	AAD        []frontend.Variable        `gnark:",public"`
	CipherText []frontend.Variable        `gnark:",public"`
	AuthTag    [TagSize]frontend.Variable `gnark:",public"`
}

// NewCircuit returns a placeholder sized for p.
func NewCircuit(p Params) (*Circuit, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Circuit{
		PlainText:  make([]frontend.Variable, p.PlainTextLen),
		AAD:        make([]frontend.Variable, p.AADLen),
		CipherText: make([]frontend.Variable, p.PlainTextLen),
	}, nil
}

// Params returns the lengths the circuit is sized for.
func (c *Circuit) Params() Params {
	return Params{AADLen: len(c.AAD), PlainTextLen: len(c.PlainText)}
}

func (c *Circuit) Define(api frontend.API) error {
	if len(c.CipherText) != len(c.PlainText) {
		return fmt.Errorf("%w: plaintext has %d bytes, ciphertext %d",
			bits.ErrInvalidLength, len(c.PlainText), len(c.CipherText))
	}
	ct, tag, err := Encrypt(api, c.Key, c.IV, c.PlainText, c.AAD)
	if err != nil {
		return fmt.Errorf("could not build aes-gcm: %w", err)
	}
	for i := range ct {
		api.AssertIsEqual(ct[i], c.CipherText[i])
	}
	for i := range tag {
		api.AssertIsEqual(tag[i], c.AuthTag[i])
	}
	return nil
}
