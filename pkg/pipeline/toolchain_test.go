package pipeline

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestEnsureToolchainWithCargoPresent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake executables are easier to fake on POSIX")
	}

	dir := t.TempDir()
	cargo := filepath.Join(dir, "cargo")
	if err := os.WriteFile(cargo, []byte("#!/bin/sh\nexit 0\n"), 0770); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	env := &memoryState{}
	if err := EnsureToolchain(testContext(t), env); err != nil {
		t.Fatalf("EnsureToolchain() returned error: %v", err)
	}

	if len(env.List()) != 0 {
		t.Errorf("EnsureToolchain() touched the search path: %v", env.List())
	}
}
