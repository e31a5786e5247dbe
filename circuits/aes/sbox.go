package aes

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/lookup/logderivlookup"
	"github.com/vocdoni/gnark-aesgcm/circuits/bits"
	"github.com/vocdoni/gnark-aesgcm/crypto/aes128"
)

// SBox is the AES substitution table committed as a log-derivative lookup
// table. One table is shared by the key schedule and every round of every
// cipher built in the same circuit.
type SBox struct {
	api   frontend.API
	table *logderivlookup.Table
}

// NewSBox inserts the 256 entries of the FIPS-197 table.
func NewSBox(api frontend.API) *SBox {
	table := logderivlookup.New(api)
	for _, v := range aes128.SBox {
		table.Insert(int(v))
	}
	return &SBox{api: api, table: table}
}

// Substitute looks up every input byte in a single batched query and
// decomposes the results back into constrained bits.
func (s *SBox) Substitute(in ...bits.Byte) []bits.Byte {
	if len(in) == 0 {
		return nil
	}
	out := s.table.Lookup(bits.Values(s.api, in)...)
	return bits.BytesOf(s.api, out)
}
