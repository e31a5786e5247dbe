package ghash

import (
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
)

// Degree is the degree of the GHASH field polynomial x^128+x^7+x^2+x+1.
const Degree = 128

// Element is an element of GF(2^128) as its 128 boolean coefficients:
// index j is the coefficient of x^j. In the byte representation the
// coefficient j is bit 7-(j mod 8) of byte j/8, so x^0 is the most
// significant bit of the first byte.
type Element [Degree]frontend.Variable

// FromBlock reads the coefficients of a block in GCM bit order. It only
// rewires the bits of b.
func FromBlock(b bits.Block) Element {
	var e Element
	for j := range e {
		e[j] = b[j/8][7-j%8]
	}
	return e
}

// Block returns the byte representation of e.
func (e Element) Block() bits.Block {
	var b bits.Block
	for j := range e {
		b[j/8][7-j%8] = e[j]
	}
	return b
}

// Zero returns the additive identity as constant wires.
func Zero() Element {
	var e Element
	for j := range e {
		e[j] = 0
	}
	return e
}

// One returns the multiplicative identity, 0x80 00..00 as bytes.
func One() Element {
	e := Zero()
	e[0] = 1
	return e
}

// Xor adds two elements.
func Xor(api frontend.API, a, b Element) Element {
	var out Element
	for j := range out {
		out[j] = bits.XorBit(api, a[j], b[j])
	}
	return out
}
