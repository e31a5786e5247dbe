package config

const (
	// ArtifactsDirEnv overrides the directory where compiled constraint
	// systems and keys are cached. Defaults to ~/.cache/aesgcm-artifacts.
	ArtifactsDirEnv = "AESGCM_ARTIFACTS_DIR"
	// DefaultArtifactsDirName is the directory created under the user cache
	// (or temporary) directory when ArtifactsDirEnv is not set.
	DefaultArtifactsDirName = "aesgcm-artifacts"
	// CheckHashesEnv disables the sha256 check of cached artifacts when set
	// to "false" or "0".
	CheckHashesEnv = "AESGCM_CHECK_HASHES"
	// RunCircuitTestsEnv enables the slow tests that run the groth16 setup
	// and prover.
	RunCircuitTestsEnv = "RUN_CIRCUIT_TESTS"
	// DBTypeEnv selects the storage backend used by tests.
	DBTypeEnv = "DB_TYPE"
	// DefaultDBType is the storage backend used when DBTypeEnv is unset.
	DefaultDBType = "pebble"
)

const (
	// FoldSize is the number of GHASH blocks absorbed by one fold circuit.
	// It is a chunking parameter of the incremental prover, not a property
	// of GHASH; any size >= 1 produces consistent tags.
	FoldSize = 3
	// CircuitCurve is the name of the curve whose scalar field the circuits
	// are compiled over.
	CircuitCurve = "bn254"
)
