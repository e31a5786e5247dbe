package aesgcm

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/gnark-aesgcm/crypto/gcm"
	"github.com/vocdoni/gnark-aesgcm/types"
)

// ErrInputsMismatch is returned when the ciphertext or tag of some inputs
// does not match the encryption of the plaintext.
var ErrInputsMismatch = errors.New("ciphertext or tag does not match")

// Inputs are the concrete bytes of one circuit instance, as handed over by
// a witness driver. They encode as JSON with hex strings.
type Inputs struct {
	Key        types.HexBytes `json:"key"`
	IV         types.HexBytes `json:"iv"`
	PlainText  types.HexBytes `json:"plainText"`
	AAD        types.HexBytes `json:"aad"`
	CipherText types.HexBytes `json:"cipherText"`
	AuthTag    types.HexBytes `json:"authTag"`
}

// NewInputs encrypts plainText with the native implementation and returns
// the complete inputs.
func NewInputs(key, iv, plainText, aad []byte) (*Inputs, error) {
	if err := checkSizes(key, iv); err != nil {
		return nil, err
	}
	ct, tag, err := gcm.Seal([KeySize]byte(key), [IVSize]byte(iv), plainText, aad)
	if err != nil {
		return nil, err
	}
	return &Inputs{
		Key:        bytes.Clone(key),
		IV:         bytes.Clone(iv),
		PlainText:  bytes.Clone(plainText),
		AAD:        bytes.Clone(aad),
		CipherText: ct,
		AuthTag:    tag[:],
	}, nil
}

func checkSizes(key, iv []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvalidParams, KeySize, len(key))
	}
	if len(iv) != IVSize {
		return fmt.Errorf("%w: iv must be %d bytes, got %d", ErrInvalidParams, IVSize, len(iv))
	}
	return nil
}

// Params returns the lengths of the circuit these inputs fit.
func (in *Inputs) Params() Params {
	return Params{AADLen: len(in.AAD), PlainTextLen: len(in.PlainText)}
}

// Check recomputes the encryption and compares it with the ciphertext and
// tag, which is useful for inputs decoded from JSON.
func (in *Inputs) Check() error {
	if err := checkSizes(in.Key, in.IV); err != nil {
		return err
	}
	ct, tag, err := gcm.Seal([KeySize]byte(in.Key), [IVSize]byte(in.IV), in.PlainText, in.AAD)
	if err != nil {
		return err
	}
	if !bytes.Equal(ct, in.CipherText) || !bytes.Equal(tag[:], in.AuthTag) {
		return ErrInputsMismatch
	}
	return nil
}

// Placeholder returns the circuit definition sized for these inputs.
func (in *Inputs) Placeholder() (*Circuit, error) {
	return NewCircuit(in.Params())
}

// Assignment returns the witness assignment. It does not check the
// ciphertext and tag: wrong values simply make the circuit unsatisfiable.
func (in *Inputs) Assignment() (*Circuit, error) {
	if err := checkSizes(in.Key, in.IV); err != nil {
		return nil, err
	}
	if len(in.CipherText) != len(in.PlainText) {
		return nil, fmt.Errorf("%w: plaintext has %d bytes, ciphertext %d",
			ErrInvalidParams, len(in.PlainText), len(in.CipherText))
	}
	if len(in.AuthTag) != TagSize {
		return nil, fmt.Errorf("%w: tag must be %d bytes, got %d", ErrInvalidParams, TagSize, len(in.AuthTag))
	}
	c := &Circuit{
		PlainText:  vars(in.PlainText),
		AAD:        vars(in.AAD),
		CipherText: vars(in.CipherText),
	}
	copy(c.Key[:], vars(in.Key))
	copy(c.IV[:], vars(in.IV))
	copy(c.AuthTag[:], vars(in.AuthTag))
	return c, nil
}

func vars(b []byte) []frontend.Variable {
	vs := make([]frontend.Variable, len(b))
	for i := range b {
		vs[i] = int(b[i])
	}
	return vs
}
