// Package gctr implements the GCM counter mode over byte wires: the inc32
// counter function and the keystream xor of SP 800-38D section 6.5.
package gctr

import (
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
)

// CounterOffset is the index of the first byte of the 32-bit counter in a
// counter block.
const CounterOffset = 12

// BlockCipher is the forward direction of a 128-bit block cipher keyed
// inside the circuit.
type BlockCipher interface {
	Encrypt(in bits.Block) bits.Block
}

// Inc32 adds n modulo 2^32 to the big-endian counter held in the last 4
// bytes of j. The sum is decomposed into 33 bits and the carry is
// discarded, so the wraparound is part of the constraints. The first 12
// bytes are wired through unchanged.
func Inc32(api frontend.API, j bits.Block, n uint64) bits.Block {
	n &= 0xffffffff
	if n == 0 {
		return j
	}
	var ctr frontend.Variable = 0
	for k := CounterOffset; k < bits.BlockSize; k++ {
		ctr = api.Add(api.Mul(ctr, 256), j[k].Value(api))
	}
	sum := api.ToBinary(api.Add(ctr, n), 33)

	out := j
	for k := 0; k < 4; k++ {
		// byte 15 holds the least significant bits
		copy(out[bits.BlockSize-1-k][:], sum[8*k:8*k+8])
	}
	return out
}

// XORKeyStream xors in with the keystream Encrypt(inc32(icb, i)) for
// block i. The keystream of the final partial block is truncated.
func XORKeyStream(api frontend.API, cipher BlockCipher, icb bits.Block, in []bits.Byte) []bits.Byte {
	out := make([]bits.Byte, len(in))
	for i := 0; i*bits.BlockSize < len(in); i++ {
		ks := cipher.Encrypt(Inc32(api, icb, uint64(i)))
		for k := 0; k < bits.BlockSize && i*bits.BlockSize+k < len(in); k++ {
			idx := i*bits.BlockSize + k
			out[idx] = bits.Xor(api, in[idx], ks[k])
		}
	}
	return out
}
