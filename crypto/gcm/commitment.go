package gcm

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// HashKeyCommitment is the BN254 MiMC hash of the hash subkey h, read as a
// big-endian integer. The GHASH fold circuit exposes it so that chunks
// proven separately can be checked to run under the same subkey.
func HashKeyCommitment(h [BlockSize]byte) *big.Int {
	var buf [fr.Bytes]byte
	new(big.Int).SetBytes(h[:]).FillBytes(buf[:])
	hFn := mimc.NewMiMC()
	// a 128 bit value is always a reduced element
	if _, err := hFn.Write(buf[:]); err != nil {
		panic(err)
	}
	return new(big.Int).SetBytes(hFn.Sum(nil))
}
