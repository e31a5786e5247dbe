// Package prover compiles the circuits to r1cs, runs the groth16 setup once
// per circuit instance and keeps the resulting constraint system and keys in
// the artifacts cache, recording each instance in the storage registry.
package prover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/vocdoni/gnark-aesgcm/circuits"
	"github.com/vocdoni/gnark-aesgcm/circuits/aesgcm"
	"github.com/vocdoni/gnark-aesgcm/circuits/ghash"
	"github.com/vocdoni/gnark-aesgcm/log"
	"github.com/vocdoni/gnark-aesgcm/storage"
	"github.com/vocdoni/gnark-aesgcm/types"
	"golang.org/x/sync/errgroup"
)

// Compile compiles the circuit definition to r1cs over circuits.Curve().
func Compile(circuit frontend.Circuit) (constraint.ConstraintSystem, error) {
	start := time.Now()
	ccs, err := frontend.Compile(circuits.Curve().ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("failed to compile circuit: %w", err)
	}
	log.Debugw("circuit compiled", "constraints", ccs.GetNbConstraints(), "took", time.Since(start).String())
	return ccs, nil
}

// Setup runs the groth16 setup of a constraint system.
func Setup(ccs constraint.ConstraintSystem) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	start := time.Now()
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup circuit: %w", err)
	}
	log.Debugw("circuit setup", "took", time.Since(start).String())
	return pk, vk, nil
}

// Prove computes the full witness of the assignment and proves it.
func Prove(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, assignment frontend.Circuit) (groth16.Proof, error) {
	witness, err := frontend.NewWitness(assignment, circuits.Curve().ScalarField())
	if err != nil {
		return nil, fmt.Errorf("failed to create witness: %w", err)
	}
	start := time.Now()
	proof, err := groth16.Prove(ccs, pk, witness)
	if err != nil {
		return nil, fmt.Errorf("failed to prove: %w", err)
	}
	log.Debugw("proof generated", "took", time.Since(start).String())
	return proof, nil
}

// Verify checks the proof against the public part of the assignment. Only
// the public fields of assignment need values.
func Verify(vk groth16.VerifyingKey, proof groth16.Proof, assignment frontend.Circuit) error {
	witness, err := frontend.NewWitness(assignment, circuits.Curve().ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("failed to create public witness: %w", err)
	}
	return groth16.Verify(proof, vk, witness)
}

// Keys are the decoded artifacts of one circuit instance.
type Keys struct {
	Instance *storage.Instance
	CCS      constraint.ConstraintSystem
	PK       groth16.ProvingKey
	VK       groth16.VerifyingKey
}

// Prove proves the assignment with the instance keys.
func (k *Keys) Prove(assignment frontend.Circuit) (groth16.Proof, error) {
	return Prove(k.CCS, k.PK, assignment)
}

// Verify checks a proof with the instance verifying key.
func (k *Keys) Verify(proof groth16.Proof, assignment frontend.Circuit) error {
	return Verify(k.VK, proof, assignment)
}

type entry struct {
	mu   sync.Mutex
	keys *Keys
}

// Prover loads circuit instances by name, compiling and setting them up the
// first time and reading them from the artifacts cache afterwards. Loads of
// the same name are serialized; different names proceed in parallel.
type Prover struct {
	stg     *storage.Storage
	mu      sync.Mutex
	entries map[string]*entry
}

// New returns a Prover recording its instances in stg.
func New(stg *storage.Storage) *Prover {
	return &Prover{stg: stg, entries: map[string]*entry{}}
}

// Load returns the keys of the instance name, whose definition is
// placeholder.
func (p *Prover) Load(name string, placeholder frontend.Circuit) (*Keys, error) {
	p.mu.Lock()
	e, ok := p.entries[name]
	if !ok {
		e = &entry{}
		p.entries[name] = e
	}
	p.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.keys != nil {
		return e.keys, nil
	}
	keys, err := p.fromCache(name)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, circuits.ErrArtifactNotFound) {
			log.Warnw("discarding cached instance", "name", name, "error", err.Error())
		}
		if keys, err = p.build(name, placeholder); err != nil {
			return nil, err
		}
	}
	e.keys = keys
	return keys, nil
}

// fromCache decodes the artifacts of a recorded instance.
func (p *Prover) fromCache(name string) (*Keys, error) {
	inst, err := p.stg.Instance(name)
	if err != nil {
		return nil, err
	}
	artifacts := circuits.NewCircuitArtifacts(
		&circuits.Artifact{Hash: inst.CircuitHash},
		&circuits.Artifact{Hash: inst.ProvingKeyHash},
		&circuits.Artifact{Hash: inst.VerifyingKeyHash},
	)
	if err := artifacts.LoadAll(); err != nil {
		return nil, err
	}
	ccs, err := circuits.ReadConstraintSystem(artifacts.CircuitDefinition())
	if err != nil {
		return nil, err
	}
	pk, err := circuits.ReadProvingKey(artifacts.ProvingKey())
	if err != nil {
		return nil, err
	}
	vk, err := circuits.ReadVerifyingKey(artifacts.VerifyingKey())
	if err != nil {
		return nil, err
	}
	log.Debugw("circuit instance loaded from cache", "name", name)
	return &Keys{Instance: inst, CCS: ccs, PK: pk, VK: vk}, nil
}

// build compiles and sets up placeholder, stores the artifacts and records
// the instance.
func (p *Prover) build(name string, placeholder frontend.Circuit) (*Keys, error) {
	ccs, err := Compile(placeholder)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	pk, vk, err := Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	inst := &storage.Instance{
		Name:         name,
		Constraints:  ccs.GetNbConstraints(),
		PublicInputs: ccs.GetNbPublicVariables(),
		CreatedAt:    time.Now().Unix(),
	}
	if c, ok := placeholder.(*aesgcm.Circuit); ok {
		inst.Params = c.Params()
	}
	for _, obj := range []struct {
		name string
		data io.WriterTo
		hash *types.HexBytes
	}{
		{circuits.CircuitDefinitionName, ccs, &inst.CircuitHash},
		{circuits.ProvingKeyName, pk, &inst.ProvingKeyHash},
		{circuits.VerifyingKeyName, vk, &inst.VerifyingKeyHash},
	} {
		data, err := circuits.Serialize(obj.data)
		if err != nil {
			return nil, fmt.Errorf("%s: error serializing %s: %w", name, obj.name, err)
		}
		artifact := &circuits.Artifact{}
		if err := artifact.Store(data); err != nil {
			return nil, fmt.Errorf("%s: error storing %s: %w", name, obj.name, err)
		}
		*obj.hash = artifact.Hash
	}
	if err := p.stg.SetInstance(inst); err != nil {
		return nil, fmt.Errorf("%s: error recording instance: %w", name, err)
	}
	log.Infow("circuit instance built", "name", name, "constraints", inst.Constraints)
	return &Keys{Instance: inst, CCS: ccs, PK: pk, VK: vk}, nil
}

// CompileAll loads every instance of the map concurrently. It stops at the
// first error or when ctx is done.
func (p *Prover) CompileAll(ctx context.Context, placeholders map[string]frontend.Circuit) error {
	g, ctx := errgroup.WithContext(ctx)
	for name, placeholder := range placeholders {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := p.Load(name, placeholder)
			return err
		})
	}
	return g.Wait()
}

// Instances returns the placeholders of the encryption circuits for the
// given lengths plus the GHASH fold circuit of the default size, keyed by
// instance name.
func Instances(params ...aesgcm.Params) (map[string]frontend.Circuit, error) {
	placeholders := map[string]frontend.Circuit{
		FoldName(ghash.DefaultFoldSize): ghash.NewFoldCircuit(ghash.DefaultFoldSize),
	}
	for _, prm := range params {
		c, err := aesgcm.NewCircuit(prm)
		if err != nil {
			return nil, err
		}
		placeholders[prm.Name()] = c
	}
	return placeholders, nil
}

// FoldName is the instance name of the GHASH fold circuit of size blocks.
func FoldName(size int) string {
	return fmt.Sprintf("ghash-fold%d", size)
}

// ProveInputs loads the encryption circuit sized for in and proves it.
func (p *Prover) ProveInputs(in *aesgcm.Inputs) (*Keys, groth16.Proof, error) {
	placeholder, err := in.Placeholder()
	if err != nil {
		return nil, nil, err
	}
	assignment, err := in.Assignment()
	if err != nil {
		return nil, nil, err
	}
	keys, err := p.Load(in.Params().Name(), placeholder)
	if err != nil {
		return nil, nil, err
	}
	proof, err := keys.Prove(assignment)
	if err != nil {
		return nil, nil, err
	}
	return keys, proof, nil
}
