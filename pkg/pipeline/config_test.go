package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfigValidatesArchitecture(t *testing.T) {
	for _, arch := range []string{ArchNative, ArchAarch64Msvc, ArchX64Msvc} {
		if _, err := NewConfig(false, arch, false, false); err != nil {
			t.Errorf("NewConfig(%q) returned error: %v", arch, err)
		}
	}

	if _, err := NewConfig(false, "mips-unknown-linux-gnu", false, false); err == nil {
		t.Error("NewConfig accepted an undeclared architecture")
	}
}

func TestMode(t *testing.T) {
	debug := Config{}
	if got := debug.Mode(); got != "debug" {
		t.Errorf("Mode() = %q, want debug", got)
	}

	release := Config{Release: true}
	if got := release.Mode(); got != "release" {
		t.Errorf("Mode() = %q, want release", got)
	}
}

func TestBinDirSelection(t *testing.T) {
	ws := Workspace{Root: filepath.Join("some", "root"), Config: Config{Release: true}}

	if got, want := ws.BinDir(), filepath.Join("some", "root", "bin", "release"); got != want {
		t.Errorf("BinDir() = %q, want %q", got, want)
	}
	if got, want := ws.SiblingBinDir(), filepath.Join("some", "root", "bin", "debug"); got != want {
		t.Errorf("SiblingBinDir() = %q, want %q", got, want)
	}
}

func TestTargetDir(t *testing.T) {
	dir := filepath.Join("ws", "proj")

	native := Config{}
	if got, want := native.TargetDir(dir), filepath.Join(dir, "target", "debug"); got != want {
		t.Errorf("TargetDir() = %q, want %q", got, want)
	}

	cross := Config{Release: true, Architecture: ArchAarch64Msvc}
	want := filepath.Join(dir, "target", ArchAarch64Msvc, "release")
	if got := cross.TargetDir(dir); got != want {
		t.Errorf("TargetDir() = %q, want %q", got, want)
	}
}

func TestStageClearsExistingContents(t *testing.T) {
	root := t.TempDir()
	ws := Workspace{Root: root, Platform: "linux"}

	stale := filepath.Join(ws.BinDir(), "stale.bin")
	if err := os.MkdirAll(ws.BinDir(), 0770); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0660); err != nil {
		t.Fatal(err)
	}

	binDir, err := Stage(ws)
	if err != nil {
		t.Fatalf("Stage() returned error: %v", err)
	}

	entries, err := os.ReadDir(binDir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", binDir, err)
	}
	if len(entries) != 0 {
		t.Errorf("staged directory is not empty, found %d entries", len(entries))
	}
}
