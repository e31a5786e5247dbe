package prover

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/gnark/frontend"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/gnark-aesgcm/circuits"
	"github.com/vocdoni/gnark-aesgcm/circuits/aesgcm"
	"github.com/vocdoni/gnark-aesgcm/circuits/testutil"
	"github.com/vocdoni/gnark-aesgcm/crypto/gcm"
	"github.com/vocdoni/gnark-aesgcm/storage"
	"go.vocdoni.io/dvote/db/metadb"
)

// powCircuit proves knowledge of X such that X^n == Y.
type powCircuit struct {
	X frontend.Variable
	Y frontend.Variable `gnark:",public"`

	n int
}

func (c *powCircuit) Define(api frontend.API) error {
	acc := c.X
	for i := 1; i < c.n; i++ {
		acc = api.Mul(acc, c.X)
	}
	api.AssertIsEqual(acc, c.Y)
	return nil
}

func pow(x, n int) int {
	r := 1
	for range n {
		r *= x
	}
	return r
}

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "aesgcm-prover-test")
	if err != nil {
		panic(err)
	}
	circuits.BaseDir = dir
	code := m.Run()
	if err := os.RemoveAll(dir); err != nil {
		panic(err)
	}
	os.Exit(code)
}

func TestProveVerify(t *testing.T) {
	c := qt.New(t)
	ccs, err := Compile(&powCircuit{n: 3})
	c.Assert(err, qt.IsNil)
	pk, vk, err := Setup(ccs)
	c.Assert(err, qt.IsNil)

	proof, err := Prove(ccs, pk, &powCircuit{X: 3, Y: 27, n: 3})
	c.Assert(err, qt.IsNil)
	c.Assert(Verify(vk, proof, &powCircuit{Y: 27, n: 3}), qt.IsNil)
	c.Assert(Verify(vk, proof, &powCircuit{Y: 28, n: 3}), qt.IsNotNil)

	_, err = Prove(ccs, pk, &powCircuit{X: 3, Y: 28, n: 3})
	c.Assert(err, qt.IsNotNil)
}

func TestExportVerifyFiles(t *testing.T) {
	c := qt.New(t)
	keys, err := New(storage.New(metadb.NewTest(t))).Load("pow3", &powCircuit{n: 3})
	c.Assert(err, qt.IsNil)
	proof, err := keys.Prove(&powCircuit{X: 3, Y: 27, n: 3})
	c.Assert(err, qt.IsNil)

	files := FilesFor(filepath.Join(t.TempDir(), "proof.bin"))
	c.Assert(keys.Export(proof, &powCircuit{Y: 27, n: 3}, files), qt.IsNil)
	c.Assert(VerifyFiles(files), qt.IsNil)

	// a public witness claiming another output
	other := FilesFor(filepath.Join(t.TempDir(), "proof.bin"))
	c.Assert(keys.Export(proof, &powCircuit{Y: 28, n: 3}, other), qt.IsNil)
	files.PublicWitness = other.PublicWitness
	c.Assert(VerifyFiles(files), qt.IsNotNil)

	files.VerifyingKey = filepath.Join(t.TempDir(), "missing.vk")
	c.Assert(VerifyFiles(files), qt.ErrorIs, os.ErrNotExist)
}

func TestLoadCached(t *testing.T) {
	c := qt.New(t)
	stg := storage.New(metadb.NewTest(t))

	p := New(stg)
	keys, err := p.Load("pow4", &powCircuit{n: 4})
	c.Assert(err, qt.IsNil)
	c.Assert(keys.Instance.Name, qt.Equals, "pow4")
	c.Assert(keys.Instance.Constraints, qt.Equals, keys.CCS.GetNbConstraints())

	again, err := p.Load("pow4", &powCircuit{n: 4})
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.Equals, keys)

	inst, err := stg.Instance("pow4")
	c.Assert(err, qt.IsNil)
	c.Assert(inst, qt.DeepEquals, keys.Instance)

	// a new prover over the same registry reads the cache
	cached, err := New(stg).Load("pow4", &powCircuit{n: 4})
	c.Assert(err, qt.IsNil)
	c.Assert(cached.Instance, qt.DeepEquals, keys.Instance)
	proof, err := cached.Prove(&powCircuit{X: 2, Y: 16, n: 4})
	c.Assert(err, qt.IsNil)
	c.Assert(keys.Verify(proof, &powCircuit{Y: 16, n: 4}), qt.IsNil)
}

func TestLoadRebuildsMissingArtifacts(t *testing.T) {
	c := qt.New(t)
	stg := storage.New(metadb.NewTest(t))
	keys, err := New(stg).Load("pow5", &powCircuit{n: 5})
	c.Assert(err, qt.IsNil)

	pkArtifact := &circuits.Artifact{Hash: keys.Instance.ProvingKeyHash}
	c.Assert(os.Remove(pkArtifact.Path()), qt.IsNil)

	rebuilt, err := New(stg).Load("pow5", &powCircuit{n: 5})
	c.Assert(err, qt.IsNil)
	c.Assert(rebuilt.Instance.Constraints, qt.Equals, keys.Instance.Constraints)
	_, err = os.Stat((&circuits.Artifact{Hash: rebuilt.Instance.ProvingKeyHash}).Path())
	c.Assert(err, qt.IsNil)
}

func TestCompileAll(t *testing.T) {
	c := qt.New(t)
	stg := storage.New(metadb.NewTest(t))
	p := New(stg)

	placeholders := map[string]frontend.Circuit{}
	for n := 2; n <= 6; n++ {
		placeholders[fmt.Sprintf("pow%d", n)] = &powCircuit{n: n}
	}
	c.Assert(p.CompileAll(context.Background(), placeholders), qt.IsNil)

	names, err := stg.ListInstances()
	c.Assert(err, qt.IsNil)
	c.Assert(names, qt.DeepEquals, []string{"pow2", "pow3", "pow4", "pow5", "pow6"})
	for n := 2; n <= 6; n++ {
		keys, err := p.Load(fmt.Sprintf("pow%d", n), nil)
		c.Assert(err, qt.IsNil)
		proof, err := keys.Prove(&powCircuit{X: 3, Y: pow(3, n), n: n})
		c.Assert(err, qt.IsNil)
		c.Assert(keys.Verify(proof, &powCircuit{Y: pow(3, n), n: n}), qt.IsNil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = New(storage.New(metadb.NewTest(t))).CompileAll(ctx, map[string]frontend.Circuit{"pow7": &powCircuit{n: 7}})
	c.Assert(err, qt.ErrorIs, context.Canceled)
}

func TestInstances(t *testing.T) {
	c := qt.New(t)
	placeholders, err := Instances(aesgcm.Params{PlainTextLen: 16}, aesgcm.Params{AADLen: 4, PlainTextLen: 20})
	c.Assert(err, qt.IsNil)
	c.Assert(placeholders, qt.HasLen, 3)
	_, ok := placeholders[FoldName(3)]
	c.Assert(ok, qt.IsTrue)
	c.Assert(placeholders["aesgcm128-aad4-pt20"].(*aesgcm.Circuit).Params(), qt.Equals,
		aesgcm.Params{AADLen: 4, PlainTextLen: 20})

	_, err = Instances(aesgcm.Params{AADLen: -1})
	c.Assert(err, qt.ErrorIs, aesgcm.ErrInvalidParams)
}

func TestProveInputs(t *testing.T) {
	testutil.SkipUnlessCircuitTests(t)
	c := qt.New(t)
	v := gcm.NISTVectors[2]
	in, err := aesgcm.NewInputs(v.Key, v.IV, v.PlainText, v.AAD)
	c.Assert(err, qt.IsNil)

	p := New(storage.New(metadb.NewTest(t)))
	keys, proof, err := p.ProveInputs(in)
	c.Assert(err, qt.IsNil)
	c.Assert(keys.Instance.Params, qt.Equals, in.Params())

	public, err := in.Assignment()
	c.Assert(err, qt.IsNil)
	c.Assert(keys.Verify(proof, public), qt.IsNil)

	public.AuthTag[0] = int(in.AuthTag[0] ^ 1)
	c.Assert(keys.Verify(proof, public), qt.IsNotNil)
}
