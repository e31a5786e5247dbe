package aesgcm

import (
	"errors"
	"fmt"

	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
)

// MaxPlainTextLen is the largest plaintext GCM accepts with a 32-bit
// counter: 2^32 - 2 blocks.
const MaxPlainTextLen int64 = (1<<32 - 2) * bits.BlockSize

// ErrInvalidParams is returned for lengths a circuit cannot be built for.
var ErrInvalidParams = errors.New("invalid circuit parameters")

// Params are the compile time lengths of a circuit instance. Each distinct
// pair of lengths is a distinct constraint system.
type Params struct {
	AADLen       int `json:"aadLen" cbor:"0,keyasint"`
	PlainTextLen int `json:"plainTextLen" cbor:"1,keyasint"`
}

// Validate checks that both lengths are usable.
func (p Params) Validate() error {
	if p.AADLen < 0 {
		return fmt.Errorf("%w: negative aad length %d", ErrInvalidParams, p.AADLen)
	}
	if p.PlainTextLen < 0 {
		return fmt.Errorf("%w: negative plaintext length %d", ErrInvalidParams, p.PlainTextLen)
	}
	if int64(p.PlainTextLen) > MaxPlainTextLen {
		return fmt.Errorf("%w: plaintext length %d over %d", ErrInvalidParams, p.PlainTextLen, MaxPlainTextLen)
	}
	return nil
}

// Name identifies the instance, for instance in the artifacts cache.
func (p Params) Name() string {
	return fmt.Sprintf("aesgcm128-aad%d-pt%d", p.AADLen, p.PlainTextLen)
}

// NumAADBlocks is the number of padded AAD blocks.
func (p Params) NumAADBlocks() int {
	return (p.AADLen + bits.BlockSize - 1) / bits.BlockSize
}

// NumTextBlocks is the number of padded plaintext (and ciphertext) blocks.
func (p Params) NumTextBlocks() int {
	return (p.PlainTextLen + bits.BlockSize - 1) / bits.BlockSize
}

// NumHashBlocks is the number of blocks absorbed by GHASH, the length
// block included.
func (p Params) NumHashBlocks() int {
	return p.NumAADBlocks() + p.NumTextBlocks() + 1
}
