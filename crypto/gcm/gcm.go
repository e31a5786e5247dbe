// Package gcm is a native, bit-serial implementation of the pieces of
// AES-GCM (NIST SP 800-38D) that the circuits reproduce: GF(2^128)
// arithmetic in GCM bit order, GHASH, its folded variant, inc32 and GCTR.
// It computes witnesses and expected values for the circuit tests, and is
// itself checked against crypto/cipher.
package gcm

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"github.com/vocdoni/gnark-aesgcm/util"
)

const (
	BlockSize = 16
	KeySize   = 16
	IVSize    = 12
	TagSize   = 16
)

// R is the reduction constant 11100001 || 0^120 of SP 800-38D 6.3.
var R = [BlockSize]byte{0xe1}

// One returns the multiplicative identity of GF(2^128) in GCM bit order,
// where the coefficient of x^0 is the most significant bit of byte 0.
func One() [BlockSize]byte {
	return [BlockSize]byte{0x80}
}

// Xor returns a ^ b.
func Xor(a, b [BlockSize]byte) [BlockSize]byte {
	var out [BlockSize]byte
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// MulX multiplies v by x: every coefficient moves one position towards
// x^127 (a right shift of the 128-bit string) and, when the x^127
// coefficient was set, R is added.
func MulX(v [BlockSize]byte) [BlockSize]byte {
	msb := v[BlockSize-1] & 1
	var out [BlockSize]byte
	for i := BlockSize - 1; i > 0; i-- {
		out[i] = v[i]>>1 | v[i-1]<<7
	}
	out[0] = v[0] >> 1
	if msb == 1 {
		out[0] ^= R[0]
	}
	return out
}

// Mul is the bit-serial multiplication of SP 800-38D Algorithm 1.
func Mul(x, y [BlockSize]byte) [BlockSize]byte {
	var z [BlockSize]byte
	v := x
	for i := 0; i < 128; i++ {
		if y[i/8]>>(7-i%8)&1 == 1 {
			z = Xor(z, v)
		}
		v = MulX(v)
	}
	return z
}

// Update absorbs blocks into the running tag acc: acc = (acc ^ b) * h.
func Update(h, acc [BlockSize]byte, blocks ...[BlockSize]byte) [BlockSize]byte {
	for _, b := range blocks {
		acc = Mul(Xor(acc, b), h)
	}
	return acc
}

// GHASH hashes the blocks under the hash subkey h, starting from zero.
func GHASH(h [BlockSize]byte, blocks ...[BlockSize]byte) [BlockSize]byte {
	return Update(h, [BlockSize]byte{}, blocks...)
}

// Fold absorbs blocks into acc and returns every intermediate tag: tags[k]
// is the tag after k+1 blocks.
func Fold(h, acc [BlockSize]byte, blocks ...[BlockSize]byte) [][BlockSize]byte {
	tags := make([][BlockSize]byte, len(blocks))
	for i, b := range blocks {
		acc = Update(h, acc, b)
		tags[i] = acc
	}
	return tags
}

// Pad zero pads data to a multiple of the block size.
func Pad(data []byte) []byte {
	out := make([]byte, (len(data)+BlockSize-1)/BlockSize*BlockSize)
	copy(out, data)
	return out
}

// LenBlock returns the 64-bit big-endian bit lengths of the AAD and the
// ciphertext, the last GHASH block.
func LenBlock(aadLen, ctLen int) [BlockSize]byte {
	var b [BlockSize]byte
	binary.BigEndian.PutUint64(b[:8], uint64(aadLen)*8)
	binary.BigEndian.PutUint64(b[8:], uint64(ctLen)*8)
	return b
}

// HashInput assembles pad(aad) || pad(ct) || LenBlock as GHASH blocks.
func HashInput(aad, ct []byte) [][BlockSize]byte {
	blocks := util.ChunkBlocks(aad)
	blocks = append(blocks, util.ChunkBlocks(ct)...)
	return append(blocks, LenBlock(len(aad), len(ct)))
}

// Inc32 adds n to the low 32 bits of j (big-endian), modulo 2^32.
func Inc32(j [BlockSize]byte, n uint64) [BlockSize]byte {
	ctr := binary.BigEndian.Uint32(j[12:])
	binary.BigEndian.PutUint32(j[12:], ctr+uint32(n))
	return j
}

// J0 builds the pre-counter block IV || 0^31 || 1 for a 96-bit IV.
func J0(iv [IVSize]byte) [BlockSize]byte {
	var j [BlockSize]byte
	copy(j[:], iv[:])
	j[BlockSize-1] = 1
	return j
}

// HashSubkey returns H = E(K, 0^128).
func HashSubkey(b cipher.Block) [BlockSize]byte {
	var h [BlockSize]byte
	b.Encrypt(h[:], h[:])
	return h
}

// GCTR XORs in with the keystream E(K, inc32(icb, i)). The last partial
// block is truncated.
func GCTR(b cipher.Block, icb [BlockSize]byte, in []byte) []byte {
	out := make([]byte, len(in))
	var ks [BlockSize]byte
	for i := 0; i*BlockSize < len(in); i++ {
		cb := Inc32(icb, uint64(i))
		b.Encrypt(ks[:], cb[:])
		for k := i * BlockSize; k < len(in) && k < (i+1)*BlockSize; k++ {
			out[k] = in[k] ^ ks[k-i*BlockSize]
		}
	}
	return out
}

// Seal encrypts and authenticates the plaintext, returning the ciphertext
// and the tag separately.
func Seal(key [KeySize]byte, iv [IVSize]byte, plaintext, aad []byte) ([]byte, [TagSize]byte, error) {
	b, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, [TagSize]byte{}, fmt.Errorf("could not create block cipher: %w", err)
	}
	h := HashSubkey(b)
	j0 := J0(iv)
	ct := GCTR(b, Inc32(j0, 1), plaintext)
	s := GHASH(h, HashInput(aad, ct)...)
	var tag [TagSize]byte
	copy(tag[:], GCTR(b, j0, s[:]))
	return ct, tag, nil
}

// CTR encrypts (or decrypts) in with the 32-bit big-endian counter mode
// starting at icb, the way GCM derives its ciphertext from J0+1.
func CTR(key [KeySize]byte, icb [BlockSize]byte, in []byte) ([]byte, error) {
	b, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("could not create block cipher: %w", err)
	}
	return GCTR(b, icb, in), nil
}
