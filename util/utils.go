package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomBytes generates a random byte slice of length n.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

// Random16 generates a random 16-byte array, the size of a cipher block.
func Random16() [16]byte {
	var bytes [16]byte
	copy(bytes[:], RandomBytes(16))
	return bytes
}

// RandomHex generates a random hex string of length n.
func RandomHex(n int) string {
	return fmt.Sprintf("%x", RandomBytes(n))
}

// RandomInt generates a random integer between min and max.
func RandomInt(min, max int) int {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	if err != nil {
		panic(err)
	}
	return int(num.Int64()) + min
}

// TrimHex trims the '0x' prefix from a hex string.
func TrimHex(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// FlipBit returns a copy of data with the bit at position pos flipped. The
// bit position counts from the most significant bit of the first byte.
func FlipBit(data []byte, pos int) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	out[pos/8] ^= 0x80 >> (pos % 8)
	return out
}

// ChunkBlocks splits data into 16-byte blocks, zero padding the last one.
func ChunkBlocks(data []byte) [][16]byte {
	blocks := make([][16]byte, (len(data)+15)/16)
	for i := range blocks {
		copy(blocks[i][:], data[i*16:])
	}
	return blocks
}
