package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/vocdoni/gnark-aesgcm/circuits"
	"github.com/vocdoni/gnark-aesgcm/circuits/aesgcm"
	"github.com/vocdoni/gnark-aesgcm/circuits/ghash"
	"github.com/vocdoni/gnark-aesgcm/log"
	"github.com/vocdoni/gnark-aesgcm/prover"
	"github.com/vocdoni/gnark-aesgcm/storage"
	"github.com/vocdoni/gnark-aesgcm/util"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

func main() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	dataDir := flag.String("datadir", filepath.Join(home, ".aesgcm"), "directory of the instances registry")
	artifactsDir := flag.String("artifacts", circuits.BaseDir, "directory of the artifacts cache")
	logLevel := flag.String("log.level", "info", "log level (debug, info, warn, error)")
	logOutput := flag.String("log.output", "stdout", "log output (stdout, stderr or a file path)")
	compile := flag.StringSlice("compile", nil, "instances to compile, as aadLen:plainTextLen")
	fold := flag.Bool("fold", false, "also compile the GHASH fold circuit")
	generate := flag.String("generate", "", "write random inputs of aadLen:plainTextLen to --inputs")
	inputsPath := flag.String("inputs", "", "JSON file with the inputs to prove")
	proofPath := flag.String("proof", "proof.bin", "file where the proof is written, with its verifying key (.vk) and public witness (.pub) next to it")
	verify := flag.Bool("verify", false, "verify the proof, verifying key and public witness at --proof")
	list := flag.Bool("list", false, "list the compiled instances")
	flag.Parse()
	log.Init(*logLevel, *logOutput, nil)

	circuits.BaseDir = *artifactsDir
	database, err := metadb.New(db.TypePebble, *dataDir)
	if err != nil {
		log.Fatalf("cannot open registry at %s: %v", *dataDir, err)
	}
	stg := storage.New(database)
	defer stg.Close()
	p := prover.New(stg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if len(*compile) > 0 || *fold {
		var params []aesgcm.Params
		for _, s := range *compile {
			prm, err := parseParams(s)
			if err != nil {
				log.Fatalf("invalid instance %q: %v", s, err)
			}
			params = append(params, prm)
		}
		placeholders, err := prover.Instances(params...)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if !*fold {
			delete(placeholders, prover.FoldName(ghash.DefaultFoldSize))
		}
		if err := p.CompileAll(ctx, placeholders); err != nil {
			log.Fatalf("compilation failed: %v", err)
		}
	}

	if *generate != "" {
		if err := generateInputs(*generate, *inputsPath); err != nil {
			log.Fatalf("cannot generate inputs: %v", err)
		}
	}

	if *inputsPath != "" {
		if err := prove(p, *inputsPath, *proofPath); err != nil {
			log.Fatalf("%v", err)
		}
	}

	if *verify {
		if err := prover.VerifyFiles(prover.FilesFor(*proofPath)); err != nil {
			log.Fatalf("proof %s does not verify: %v", *proofPath, err)
		}
		log.Infow("proof verified", "path", *proofPath)
	}

	if *list {
		names, err := stg.ListInstances()
		if err != nil {
			log.Fatalf("cannot list instances: %v", err)
		}
		for _, name := range names {
			inst, err := stg.Instance(name)
			if err != nil {
				log.Fatalf("cannot read instance %s: %v", name, err)
			}
			fmt.Printf("%s\t%d constraints\tvk %s\n", name, inst.Constraints, inst.VerifyingKeyHash.Hex())
		}
	}
}

// parseParams reads "aadLen:plainTextLen".
func parseParams(s string) (aesgcm.Params, error) {
	aad, pt, ok := strings.Cut(s, ":")
	if !ok {
		return aesgcm.Params{}, fmt.Errorf("expected aadLen:plainTextLen")
	}
	aadLen, err := strconv.Atoi(aad)
	if err != nil {
		return aesgcm.Params{}, err
	}
	ptLen, err := strconv.Atoi(pt)
	if err != nil {
		return aesgcm.Params{}, err
	}
	prm := aesgcm.Params{AADLen: aadLen, PlainTextLen: ptLen}
	return prm, prm.Validate()
}

func generateInputs(lengths, path string) error {
	if path == "" {
		return fmt.Errorf("--inputs is required with --generate")
	}
	prm, err := parseParams(lengths)
	if err != nil {
		return err
	}
	in, err := aesgcm.NewInputs(util.RandomBytes(aesgcm.KeySize), util.RandomBytes(aesgcm.IVSize),
		util.RandomBytes(prm.PlainTextLen), util.RandomBytes(prm.AADLen))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return err
	}
	log.Infow("inputs generated", "path", path, "instance", prm.Name())
	return os.WriteFile(path, data, 0o600)
}

func prove(p *prover.Prover, inputsPath, proofPath string) error {
	data, err := os.ReadFile(inputsPath)
	if err != nil {
		return fmt.Errorf("cannot read inputs: %w", err)
	}
	in := &aesgcm.Inputs{}
	if err := json.Unmarshal(data, in); err != nil {
		return fmt.Errorf("cannot decode inputs: %w", err)
	}
	if err := in.Check(); err != nil {
		return fmt.Errorf("invalid inputs: %w", err)
	}
	keys, proof, err := p.ProveInputs(in)
	if err != nil {
		return fmt.Errorf("proving failed: %w", err)
	}
	public, err := in.Assignment()
	if err != nil {
		return err
	}
	if err := keys.Verify(proof, public); err != nil {
		return fmt.Errorf("proof does not verify: %w", err)
	}
	if err := keys.Export(proof, public, prover.FilesFor(proofPath)); err != nil {
		return err
	}
	log.Infow("proof generated", "instance", keys.Instance.Name, "vk", keys.Instance.VerifyingKeyHash.Hex())
	return nil
}
