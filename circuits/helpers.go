package circuits

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/vocdoni/gnark-aesgcm/log"
)

// Serialize writes any of the gnark objects that implement io.WriterTo
// (constraint systems, keys, proofs) to a byte slice.
func Serialize(obj io.WriterTo) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := obj.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadConstraintSystem decodes a serialized r1cs over the circuit curve.
func ReadConstraintSystem(data []byte) (constraint.ConstraintSystem, error) {
	ccs := groth16.NewCS(Curve())
	if _, err := ccs.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error reading constraint system: %w", err)
	}
	return ccs, nil
}

// ReadProvingKey decodes a serialized groth16 proving key.
func ReadProvingKey(data []byte) (groth16.ProvingKey, error) {
	pk := groth16.NewProvingKey(Curve())
	if _, err := pk.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error reading proving key: %w", err)
	}
	return pk, nil
}

// ReadVerifyingKey decodes a serialized groth16 verifying key.
func ReadVerifyingKey(data []byte) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(Curve())
	if _, err := vk.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error reading verifying key: %w", err)
	}
	return vk, nil
}

// ReadProof decodes a serialized groth16 proof.
func ReadProof(data []byte) (groth16.Proof, error) {
	proof := groth16.NewProof(Curve())
	if _, err := proof.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error reading proof: %w", err)
	}
	return proof, nil
}

// StoreConstraintSystem stores the constraint system in a file.
func StoreConstraintSystem(cs constraint.ConstraintSystem, filepath string) error {
	if err := storeTo(cs, filepath); err != nil {
		return err
	}
	log.Infow("constraint system written", "path", filepath, "constraints", cs.GetNbConstraints())
	return nil
}

// StoreVerificationKey stores the verification key in a file.
func StoreVerificationKey(vkey groth16.VerifyingKey, filepath string) error {
	if err := storeTo(vkey, filepath); err != nil {
		return err
	}
	log.Infow("verification key written", "path", filepath)
	return nil
}

// StoreProof stores the proof in a file.
func StoreProof(proof groth16.Proof, filepath string) error {
	if err := storeTo(proof, filepath); err != nil {
		return err
	}
	log.Infow("proof written", "path", filepath)
	return nil
}

// StoreWitness stores the witness in a file.
func StoreWitness(w witness.Witness, filepath string) error {
	data, err := w.MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath, data, 0o644); err != nil {
		return err
	}
	log.Infow("witness written", "path", filepath)
	return nil
}

// ReadWitness decodes a serialized witness over the circuit curve.
func ReadWitness(data []byte) (witness.Witness, error) {
	w, err := witness.New(Curve().ScalarField())
	if err != nil {
		return nil, err
	}
	if err := w.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("error reading witness: %w", err)
	}
	return w, nil
}

func storeTo(obj io.WriterTo, filepath string) error {
	fd, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer fd.Close()
	if _, err := obj.WriteTo(fd); err != nil {
		return err
	}
	return nil
}
