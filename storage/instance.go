package storage

import (
	"fmt"
	"sort"

	"github.com/vocdoni/gnark-aesgcm/circuits/aesgcm"
	"github.com/vocdoni/gnark-aesgcm/types"
)

// Instance records a compiled circuit instance and where its artifacts are
// cached. Params is zero for circuits that are not sized by message
// lengths, such as the GHASH fold.
type Instance struct {
	Name             string         `cbor:"0,keyasint,omitempty"`
	Params           aesgcm.Params  `cbor:"1,keyasint,omitempty"`
	Constraints      int            `cbor:"2,keyasint,omitempty"`
	PublicInputs     int            `cbor:"3,keyasint,omitempty"`
	CircuitHash      types.HexBytes `cbor:"4,keyasint,omitempty"`
	ProvingKeyHash   types.HexBytes `cbor:"5,keyasint,omitempty"`
	VerifyingKeyHash types.HexBytes `cbor:"6,keyasint,omitempty"`
	CreatedAt        int64          `cbor:"7,keyasint,omitempty"`
}

// SetInstance stores or replaces the record of an instance.
func (s *Storage) SetInstance(inst *Instance) error {
	if inst == nil || inst.Name == "" {
		return fmt.Errorf("instance without name")
	}
	return s.setArtifact(instancePrefix, []byte(inst.Name), inst)
}

// Instance returns the record stored under name, or ErrNotFound.
func (s *Storage) Instance(name string) (*Instance, error) {
	inst := &Instance{}
	if err := s.getArtifact(instancePrefix, []byte(name), inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// ListInstances returns the names of the stored instances, sorted.
func (s *Storage) ListInstances() ([]string, error) {
	keys, err := s.listArtifacts(instancePrefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names, nil
}

// DeleteInstance removes the record of an instance. The cached artifacts
// are left in place, as other instances may share them.
func (s *Storage) DeleteInstance(name string) error {
	return s.deleteArtifact(instancePrefix, []byte(name))
}
