// Package ghash implements GF(2^128) multiplication in GCM bit order and the
// GHASH universal hash of SP 800-38D section 6.4 over boolean wires, plus a
// folded variant that absorbs a fixed group of blocks and exposes every
// running tag.
package ghash

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
)

// reductionTaps are the coefficients of R = 0xe1 || 0^120, i.e. of
// x^7+x^2+x+1, where x^128 folds back.
var reductionTaps = [...]int{0, 1, 2, 7}

// parityBits is the number of bits needed to decompose a sum of up to
// Degree boolean terms.
const parityBits = 8

// MulX multiplies v by x. Every coefficient moves one position up; the
// coefficient shifted out of x^127 selects whether R is added back into
// positions 0, 1, 2 and 7.
func MulX(api frontend.API, v Element) Element {
	msb := v[Degree-1]
	var out Element
	out[0] = 0
	copy(out[1:], v[:Degree-1])
	for _, tap := range reductionTaps {
		out[tap] = bits.XorBit(api, out[tap], msb)
	}
	return out
}

// Mul multiplies x by y with double-and-add: V runs through x*x^i and
// coefficient i of y selects whether V is added to the result.
func Mul(api frontend.API, x, y Element) Element {
	return NewKey(api, x).Mul(y)
}

// Key is a multiplier by a fixed element H, normally the hash subkey. The
// table of H*x^i is computed once and read by every multiplication.
type Key struct {
	api    frontend.API
	powers [Degree]Element
}

// NewKey precomputes H*x^i for i in [0, 128).
func NewKey(api frontend.API, h Element) *Key {
	k := &Key{api: api}
	k.powers[0] = h
	for i := 1; i < Degree; i++ {
		k.powers[i] = MulX(api, k.powers[i-1])
	}
	return k
}

// H returns the element the key multiplies by.
func (k *Key) H() Element {
	return k.powers[0]
}

// Commitment is the MiMC hash of H, packed big-endian into one field
// element. It matches gcm.HashKeyCommitment.
func (k *Key) Commitment() (frontend.Variable, error) {
	hasher, err := mimc.NewMiMC(k.api)
	if err != nil {
		return nil, err
	}
	var packed frontend.Variable = 0
	for _, b := range k.H().Block() {
		packed = k.api.Add(k.api.Mul(packed, 256), b.Value(k.api))
	}
	hasher.Write(packed)
	return hasher.Sum(), nil
}

// Mul returns x*H. Coefficient j of the product is the parity of
// sum_i x_i * (H*x^i)_j, taken as the low bit of the sum's decomposition.
func (k *Key) Mul(x Element) Element {
	var z Element
	terms := make([]frontend.Variable, Degree)
	for j := range z {
		for i := range terms {
			terms[i] = k.api.Mul(x[i], k.powers[i][j])
		}
		z[j] = k.parity(terms)
	}
	return z
}

func (k *Key) parity(terms []frontend.Variable) frontend.Variable {
	sum := k.api.Add(terms[0], terms[1], terms[2:]...)
	return k.api.ToBinary(sum, parityBits)[0]
}

// Update absorbs the blocks into the running tag: acc = (acc ^ b) * H.
func (k *Key) Update(acc Element, blocks ...Element) Element {
	for _, b := range blocks {
		acc = k.Mul(Xor(k.api, acc, b))
	}
	return acc
}

// Sum is GHASH(H, blocks) from a zero accumulator.
func (k *Key) Sum(blocks ...Element) Element {
	return k.Update(Zero(), blocks...)
}

// Fold absorbs the blocks into acc and returns every running tag: tag i is
// the accumulator after i+1 blocks.
func (k *Key) Fold(acc Element, blocks ...Element) []Element {
	tags := make([]Element, len(blocks))
	for i, b := range blocks {
		acc = k.Update(acc, b)
		tags[i] = acc
	}
	return tags
}

// SelectTag returns tags[count-1]. The circuit is unsatisfiable when count
// is not in [1, len(tags)].
func SelectTag(api frontend.API, tags []Element, count frontend.Variable) Element {
	ind := bits.Decoder(api, api.Sub(count, 1), len(tags))
	var out Element
	column := make([]frontend.Variable, len(tags))
	for j := range out {
		for i := range tags {
			column[i] = tags[i][j]
		}
		out[j] = bits.Mux(api, ind, column...)
		bits.MarkBoolean(api, out[j])
	}
	return out
}
