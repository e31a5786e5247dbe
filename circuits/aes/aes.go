// Package aes implements the AES-128 block cipher over byte wires: the key
// schedule and the 10 round substitution-permutation network of FIPS-197.
// The state is a bits.Block where byte r+4c is row r and column c, which is
// also the order of the input and output bytes.
package aes

import (
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
	"github.com/vocdoni/gnark-aesgcm/circuits/gf256"
	"github.com/vocdoni/gnark-aesgcm/crypto/aes128"
)

// Rounds is the number of AES-128 rounds.
const Rounds = aes128.Rounds

// Schedule holds the 11 round keys.
type Schedule [Rounds + 1]bits.Block

type word [4]bits.Byte

// ExpandKey computes the round keys of key. Words 0 to 3 are the key; word
// i is w[i-4] ^ w[i-1], except every fourth word where w[i-1] is rotated,
// substituted and xored with the round constant first.
func ExpandKey(api frontend.API, sbox *SBox, key bits.Block) Schedule {
	var w [aes128.ScheduleWords]word
	for i := 0; i < 4; i++ {
		copy(w[i][:], key[4*i:4*i+4])
	}
	for i := 4; i < aes128.ScheduleWords; i++ {
		t := w[i-1]
		if i%4 == 0 {
			sub := sbox.Substitute(t[1], t[2], t[3], t[0])
			copy(t[:], sub)
			t[0] = bits.XorConst(api, t[0], aes128.RCon(i/4))
		}
		for k := range t {
			w[i][k] = bits.Xor(api, w[i-4][k], t[k])
		}
	}

	var s Schedule
	for i := range w {
		copy(s[i/4][4*(i%4):], w[i][:])
	}
	return s
}

// Cipher encrypts blocks under a fixed key. The schedule is expanded once
// and shared read-only by every Encrypt call.
type Cipher struct {
	api      frontend.API
	sbox     *SBox
	schedule Schedule
}

// NewCipher expands key with the given S-box table.
func NewCipher(api frontend.API, sbox *SBox, key bits.Block) *Cipher {
	return &Cipher{
		api:      api,
		sbox:     sbox,
		schedule: ExpandKey(api, sbox, key),
	}
}

// Encrypt runs the forward cipher on one block.
func (c *Cipher) Encrypt(in bits.Block) bits.Block {
	state := bits.XorBlocks(c.api, in, c.schedule[0])
	for round := 1; round <= Rounds; round++ {
		state = c.subBytes(state)
		state = shiftRows(state)
		if round != Rounds {
			state = c.mixColumns(state)
		}
		state = bits.XorBlocks(c.api, state, c.schedule[round])
	}
	return state
}

func (c *Cipher) subBytes(state bits.Block) bits.Block {
	var out bits.Block
	copy(out[:], c.sbox.Substitute(state[:]...))
	return out
}

// shiftRows rotates row r left by r positions. It only rewires bytes.
func shiftRows(state bits.Block) bits.Block {
	var out bits.Block
	for r := 0; r < 4; r++ {
		for col := 0; col < 4; col++ {
			out[r+4*col] = state[r+4*((col+r)%4)]
		}
	}
	return out
}

// mixColumns multiplies every column by the circulant matrix
// {2,3,1,1;1,2,3,1;1,1,2,3;3,1,1,2}.
func (c *Cipher) mixColumns(state bits.Block) bits.Block {
	var out bits.Block
	for col := 0; col < 4; col++ {
		var a, a2, a3 word
		for r := 0; r < 4; r++ {
			a[r] = state[r+4*col]
			a2[r] = gf256.MulConst(c.api, a[r], 2)
			// 3a = 2a ^ a
			a3[r] = bits.Xor(c.api, a2[r], a[r])
		}
		for r := 0; r < 4; r++ {
			out[r+4*col] = c.xor4(a2[r], a3[(r+1)%4], a[(r+2)%4], a[(r+3)%4])
		}
	}
	return out
}

func (c *Cipher) xor4(a, b, d, e bits.Byte) bits.Byte {
	return bits.Xor(c.api, bits.Xor(c.api, a, b), bits.Xor(c.api, d, e))
}
