package pipeline

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Target triples cargo can cross-compile the workspace for. The empty value
// selects the host's native target.
const (
	ArchNative      = ""
	ArchAarch64Msvc = "aarch64-pc-windows-msvc"
	ArchX64Msvc     = "x86_64-pc-windows-msvc"
)

// Config captures the flags of a single orchestrator run. It never changes
// after NewConfig returns; every downstream path and argument is derived
// from it.
type Config struct {
	Release      bool
	Architecture string
	Clippy       bool
	Test         bool
}

// NewConfig validates the architecture and returns the run configuration.
func NewConfig(release bool, architecture string, clippy, test bool) (Config, error) {
	switch architecture {
	case ArchNative, ArchAarch64Msvc, ArchX64Msvc:
	default:
		return Config{}, eris.Errorf("Unknown architecture %s", architecture)
	}

	return Config{
		Release:      release,
		Architecture: architecture,
		Clippy:       clippy,
		Test:         test,
	}, nil
}

// Mode returns the cargo profile directory name for this configuration.
func (c Config) Mode() string {
	if c.Release {
		return "release"
	}
	return "debug"
}

func (c Config) siblingMode() string {
	if c.Release {
		return "debug"
	}
	return "release"
}

// TargetDir returns the directory cargo writes build products to for the
// given project. Cross-compiled builds get an extra per-triple level.
func (c Config) TargetDir(projectDir string) string {
	if c.Architecture != ArchNative {
		return filepath.Join(projectDir, "target", c.Architecture, c.Mode())
	}
	return filepath.Join(projectDir, "target", c.Mode())
}

// Workspace ties one orchestrator run to a checkout on disk. Platform is the
// GOOS-style tag of the host and is injected rather than read from runtime so
// project gating stays testable.
type Workspace struct {
	Root     string
	Platform string
	Config   Config
}

// BinDir returns the staged output directory for this run.
func (ws Workspace) BinDir() string {
	return filepath.Join(ws.Root, "bin", ws.Config.Mode())
}

// SiblingBinDir returns the staged output directory of the other build mode
// at the same architecture.
func (ws Workspace) SiblingBinDir() string {
	return filepath.Join(ws.Root, "bin", ws.Config.siblingMode())
}

func (ws Workspace) exeSuffix() string {
	if ws.Platform == "windows" {
		return ".exe"
	}
	return ""
}

// Stage clears and recreates the staged output directory. A deletion failure
// aborts the run: leftover locked files usually mean a previous build is
// still alive, and continuing would race it.
func Stage(ws Workspace) (string, error) {
	binDir := ws.BinDir()

	err := os.RemoveAll(binDir)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to clear %s", binDir)
	}

	err = os.MkdirAll(binDir, 0770)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to create %s", binDir)
	}

	return binDir, nil
}
