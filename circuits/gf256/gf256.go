// Package gf256 implements multiplication by constants in GF(2^8) modulo
// the AES polynomial x^8+x^4+x^3+x+1, over byte wires.
package gf256

import (
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
)

// Reduction is the low byte of the AES modulus.
const Reduction = 0x1b

// XTimes multiplies in by x. The bit shifted out of the top selects between
// the shifted value and the shifted value xor 0x1b; only the bits where
// 0x1b is set need a multiplexer.
func XTimes(api frontend.API, in bits.Byte) bits.Byte {
	msb := in[7]
	var shifted bits.Byte
	shifted[0] = 0
	copy(shifted[1:], in[:7])
	reduced := bits.XorConst(api, shifted, Reduction)

	out := shifted
	for i := range out {
		if (Reduction>>i)&1 == 0 {
			continue
		}
		out[i] = bits.Select(api, msb, reduced[i], shifted[i])
	}
	return out
}

// MulConst multiplies in by the constant c by accumulating the doublings of
// in selected by the bits of c.
func MulConst(api frontend.API, in bits.Byte, c uint8) bits.Byte {
	res := bits.ConstByte(0)
	cur := in
	first := true
	for i := 0; c>>i != 0; i++ {
		if i > 0 {
			cur = XTimes(api, cur)
		}
		if (c>>i)&1 == 0 {
			continue
		}
		if first {
			res, first = cur, false
			continue
		}
		res = bits.Xor(api, res, cur)
	}
	return res
}
