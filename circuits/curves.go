package circuits

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/vocdoni/gnark-aesgcm/config"
)

// curve is resolved once from config.CircuitCurve.
var curve ecc.ID

func init() {
	id, err := ecc.IDFromString(config.CircuitCurve)
	if err != nil {
		panic(err)
	}
	curve = id
}

// Curve is the curve whose scalar field every circuit is compiled over.
// The byte gadgets only need a field larger than 2^9, so any supported
// curve works; groth16 proving uses its pairing.
func Curve() ecc.ID {
	return curve
}
