package testutil

import (
	"os"
	"testing"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/vocdoni/gnark-aesgcm/config"
)

// RunCircuitTests reports whether the slow compile and prove tests are
// enabled through the environment.
func RunCircuitTests() bool {
	v := os.Getenv(config.RunCircuitTestsEnv)
	return v != "" && v != "false"
}

// SkipUnlessCircuitTests skips the test when the slow circuit tests are
// disabled.
func SkipUnlessCircuitTests(t testing.TB) {
	t.Helper()
	if !RunCircuitTests() {
		t.Skip("skipping circuit tests...")
	}
}

// EnableCompilerLog makes gnark print the number of constraints and the
// timings of compilation, setup and proving.
func EnableCompilerLog() {
	logger.Set(zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).With().Timestamp().Logger())
}

// Vars converts bytes to circuit values.
func Vars(b []byte) []frontend.Variable {
	vs := make([]frontend.Variable, len(b))
	for i := range b {
		vs[i] = int(b[i])
	}
	return vs
}

// Vars16 converts the first 16 bytes of b to circuit values.
func Vars16(b []byte) [16]frontend.Variable {
	var vs [16]frontend.Variable
	copy(vs[:], Vars(b[:16]))
	return vs
}
