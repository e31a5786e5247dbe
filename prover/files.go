package prover

import (
	"fmt"
	"os"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/gnark-aesgcm/circuits"
	"github.com/vocdoni/gnark-aesgcm/log"
)

// Files are the paths of an exported proof, the verifying key of its
// instance and its public witness.
type Files struct {
	Proof         string
	VerifyingKey  string
	PublicWitness string
}

// FilesFor places the verifying key and the public witness next to the
// proof, as proofPath.vk and proofPath.pub.
func FilesFor(proofPath string) Files {
	return Files{
		Proof:         proofPath,
		VerifyingKey:  proofPath + ".vk",
		PublicWitness: proofPath + ".pub",
	}
}

// Export writes the proof with everything needed to verify it without the
// artifacts cache: the verifying key and the public part of assignment.
func (k *Keys) Export(proof groth16.Proof, assignment frontend.Circuit, f Files) error {
	public, err := frontend.NewWitness(assignment, circuits.Curve().ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("failed to create public witness: %w", err)
	}
	if err := circuits.StoreProof(proof, f.Proof); err != nil {
		return fmt.Errorf("cannot write proof: %w", err)
	}
	if err := circuits.StoreVerificationKey(k.VK, f.VerifyingKey); err != nil {
		return fmt.Errorf("cannot write verifying key: %w", err)
	}
	if err := circuits.StoreWitness(public, f.PublicWitness); err != nil {
		return fmt.Errorf("cannot write public witness: %w", err)
	}
	return nil
}

// VerifyFiles reads an exported proof and verifies it.
func VerifyFiles(f Files) error {
	data, err := os.ReadFile(f.Proof)
	if err != nil {
		return err
	}
	proof, err := circuits.ReadProof(data)
	if err != nil {
		return err
	}
	if data, err = os.ReadFile(f.VerifyingKey); err != nil {
		return err
	}
	vk, err := circuits.ReadVerifyingKey(data)
	if err != nil {
		return err
	}
	if data, err = os.ReadFile(f.PublicWitness); err != nil {
		return err
	}
	public, err := circuits.ReadWitness(data)
	if err != nil {
		return err
	}
	if err := groth16.Verify(proof, vk, public); err != nil {
		return err
	}
	log.Debugw("exported proof verified", "path", f.Proof)
	return nil
}
