package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvironmentState is an ordered list of search-path entries. The pipeline
// only talks to this interface so the reconciliation logic can be exercised
// against an in-memory fake instead of the real process environment.
type EnvironmentState interface {
	List() []string
	Contains(path string) bool
	Append(path string)
	Remove(path string)
}

// ProcessList is an EnvironmentState backed by a list-valued variable of the
// current process, such as PATH or PSModulePath. Mutations are visible to
// every subprocess launched afterwards.
type ProcessList struct {
	name string
}

// NewProcessList returns the EnvironmentState for the named variable.
func NewProcessList(name string) *ProcessList {
	return &ProcessList{name: name}
}

func (p *ProcessList) List() []string {
	return filepath.SplitList(os.Getenv(p.name))
}

func (p *ProcessList) Contains(path string) bool {
	for _, entry := range p.List() {
		if entry == path {
			return true
		}
	}

	return false
}

func (p *ProcessList) Append(path string) {
	value := os.Getenv(p.name)
	if value == "" {
		os.Setenv(p.name, path)
		return
	}

	os.Setenv(p.name, value+string(os.PathListSeparator)+path)
}

func (p *ProcessList) Remove(path string) {
	entries := p.List()
	kept := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry != path {
			kept = append(kept, entry)
		}
	}

	os.Setenv(p.name, strings.Join(kept, string(os.PathListSeparator)))
}

// ReconcilePath makes sure the staged output directory is on the search path
// and that the other build mode's directory is not. Leaving the sibling entry
// in place would let the shell pick up stale binaries from the previous
// configuration. Calling this twice in a row leaves the path unchanged.
func ReconcilePath(env EnvironmentState, ws Workspace) {
	env.Remove(ws.SiblingBinDir())

	staged := ws.BinDir()
	if !env.Contains(staged) {
		env.Append(staged)
	}
}
