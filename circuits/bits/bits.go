// Package bits holds the byte and block wire types shared by the AES-GCM
// gadgets. A Byte is stored as its 8 boolean wires, least significant bit
// first; every Byte built from a free variable is range checked through
// api.ToBinary, so a value >= 256 makes the circuit unsatisfiable.
package bits

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark/frontend"
)

// BlockSize is the number of bytes of a cipher block.
const BlockSize = 16

// ErrInvalidLength is returned when a variable slice does not have the
// length the gadget was built for.
var ErrInvalidLength = errors.New("invalid length")

// Byte is a byte as 8 boolean wires, index 0 is the least significant bit.
type Byte [8]frontend.Variable

// Block is a 16 byte cipher block. For the AES state, byte r+4c is row r
// and column c.
type Block [BlockSize]Byte

// ByteOf decomposes v into 8 boolean wires and constrains the
// reconstruction, which also range checks v.
func ByteOf(api frontend.API, v frontend.Variable) Byte {
	var b Byte
	copy(b[:], api.ToBinary(v, 8))
	return b
}

// BytesOf decomposes every variable of vs.
func BytesOf(api frontend.API, vs []frontend.Variable) []Byte {
	out := make([]Byte, len(vs))
	for i, v := range vs {
		out[i] = ByteOf(api, v)
	}
	return out
}

// ConstByte returns the constant wires of c.
func ConstByte(c uint8) Byte {
	var b Byte
	for i := range b {
		b[i] = int(c>>i) & 1
	}
	return b
}

// ConstBlock returns the constant wires of c.
func ConstBlock(c [BlockSize]byte) Block {
	var b Block
	for i := range b {
		b[i] = ConstByte(c[i])
	}
	return b
}

// BlockOfVars decomposes a fixed size array of byte variables.
func BlockOfVars(api frontend.API, vs [BlockSize]frontend.Variable) Block {
	var b Block
	for i, v := range vs {
		b[i] = ByteOf(api, v)
	}
	return b
}

// Value packs the bits back into a single variable.
func (b Byte) Value(api frontend.API) frontend.Variable {
	return api.FromBinary(b[:]...)
}

// Bytes returns the block as a slice.
func (b Block) Bytes() []Byte {
	return b[:]
}

// Values packs every byte of bs.
func Values(api frontend.API, bs []Byte) []frontend.Variable {
	out := make([]frontend.Variable, len(bs))
	for i, b := range bs {
		out[i] = b.Value(api)
	}
	return out
}

// BlockOf copies exactly 16 bytes into a Block.
func BlockOf(bs []Byte) (Block, error) {
	var b Block
	if len(bs) != BlockSize {
		return b, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, BlockSize, len(bs))
	}
	copy(b[:], bs)
	return b, nil
}

// Blocks splits bs into blocks, padding the last one with constant zero
// bytes.
func Blocks(bs []Byte) []Block {
	blocks := make([]Block, (len(bs)+BlockSize-1)/BlockSize)
	for i := range blocks {
		for k := 0; k < BlockSize; k++ {
			if idx := i*BlockSize + k; idx < len(bs) {
				blocks[i][k] = bs[idx]
			} else {
				blocks[i][k] = ConstByte(0)
			}
		}
	}
	return blocks
}

// Xor returns the bitwise xor of a and b.
func Xor(api frontend.API, a, b Byte) Byte {
	var out Byte
	for i := range out {
		out[i] = XorBit(api, a[i], b[i])
	}
	return out
}

// XorBit xors two boolean wires. When one side is a constant the result is
// linear in the other and no constraint is added.
func XorBit(api frontend.API, a, b frontend.Variable) frontend.Variable {
	if _, isConst := api.Compiler().ConstantValue(a); isConst {
		a, b = b, a
	}
	cb, isConst := api.Compiler().ConstantValue(b)
	if !isConst {
		return api.Xor(a, b)
	}
	switch {
	case cb.Sign() == 0:
		return a
	case cb.IsUint64() && cb.Uint64() == 1:
		res := api.Sub(1, a)
		MarkBoolean(api, res)
		return res
	default:
		return api.Xor(a, b)
	}
}

// XorConst xors a with a constant. It is linear: bits where c is set are
// replaced by 1 - a[i].
func XorConst(api frontend.API, a Byte, c uint8) Byte {
	var out Byte
	for i := range out {
		if (c>>i)&1 == 0 {
			out[i] = a[i]
			continue
		}
		out[i] = api.Sub(1, a[i])
		MarkBoolean(api, out[i])
	}
	return out
}

// MarkBoolean records that v is boolean, so later gates skip the booleanity
// constraint. Constants need no marking.
func MarkBoolean(api frontend.API, v frontend.Variable) {
	if _, isConst := api.Compiler().ConstantValue(v); !isConst {
		api.Compiler().MarkBoolean(v)
	}
}

// XorBlocks returns the byte-wise xor of two blocks.
func XorBlocks(api frontend.API, a, b Block) Block {
	var out Block
	for i := range out {
		out[i] = Xor(api, a[i], b[i])
	}
	return out
}

// Select returns a when sel is 1 and b when sel is 0, marked boolean. sel,
// a and b must be boolean.
func Select(api frontend.API, sel, a, b frontend.Variable) frontend.Variable {
	out := api.Select(sel, a, b)
	MarkBoolean(api, out)
	return out
}

// Mux returns the input whose indicator is set, for indicators produced by
// Decoder. One set of indicators can drive many multiplexers.
func Mux(api frontend.API, ind []frontend.Variable, inputs ...frontend.Variable) frontend.Variable {
	terms := make([]frontend.Variable, len(inputs))
	for i, in := range inputs {
		terms[i] = api.Mul(ind[i], in)
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return api.Add(terms[0], terms[1], terms[2:]...)
}

// Decoder returns n boolean indicators, the i-th being 1 iff sel == i, and
// asserts that exactly one of them is set.
func Decoder(api frontend.API, sel frontend.Variable, n int) []frontend.Variable {
	ind := make([]frontend.Variable, n)
	var sum frontend.Variable = 0
	for i := range ind {
		ind[i] = api.IsZero(api.Sub(sel, i))
		sum = api.Add(sum, ind[i])
	}
	api.AssertIsEqual(sum, 1)
	return ind
}

// AssertEqual asserts that the bytes bs pack to the variables vs.
func AssertEqual(api frontend.API, bs []Byte, vs []frontend.Variable) error {
	if len(bs) != len(vs) {
		return fmt.Errorf("%w: %d bytes against %d variables", ErrInvalidLength, len(bs), len(vs))
	}
	for i := range bs {
		api.AssertIsEqual(bs[i].Value(api), vs[i])
	}
	return nil
}
