package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// HexBytes is a []byte which encodes as hexadecimal in json, as opposed to the
// base64 default. The 0x prefix is optional when decoding.
type HexBytes []byte

// String returns the hex representation prefixed with 0x.
func (b HexBytes) String() string {
	return "0x" + hex.EncodeToString(b)
}

// Hex returns the hex representation without prefix.
func (b HexBytes) Hex() string {
	return hex.EncodeToString(b)
}

func (b HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid hex bytes: %w", err)
	}
	decoded, err := hex.DecodeString(trimHex(s))
	if err != nil {
		return fmt.Errorf("invalid hex bytes %q: %w", s, err)
	}
	*b = decoded
	return nil
}

// HexStringToHexBytes converts a hex string (with or without 0x prefix) to
// HexBytes. It panics if the string is not valid hex, so it must only be
// used with constants.
func HexStringToHexBytes(s string) HexBytes {
	b, err := hex.DecodeString(trimHex(s))
	if err != nil {
		panic(err)
	}
	return b
}

func trimHex(s string) string {
	return strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
}
