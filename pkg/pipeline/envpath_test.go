package pipeline

import (
	"os"
	"reflect"
	"strings"
	"testing"
)

// memoryState is an in-memory EnvironmentState for tests.
type memoryState struct {
	entries []string
}

func (m *memoryState) List() []string {
	return append([]string(nil), m.entries...)
}

func (m *memoryState) Contains(path string) bool {
	for _, entry := range m.entries {
		if entry == path {
			return true
		}
	}
	return false
}

func (m *memoryState) Append(path string) {
	m.entries = append(m.entries, path)
}

func (m *memoryState) Remove(path string) {
	kept := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		if entry != path {
			kept = append(kept, entry)
		}
	}
	m.entries = kept
}

func TestReconcilePathAppendsStagedDir(t *testing.T) {
	ws := Workspace{Root: "root", Platform: "linux"}
	env := &memoryState{entries: []string{"/usr/bin"}}

	ReconcilePath(env, ws)

	if !env.Contains(ws.BinDir()) {
		t.Errorf("staged dir %s missing from %v", ws.BinDir(), env.List())
	}
}

func TestReconcilePathRemovesSibling(t *testing.T) {
	release := Workspace{Root: "root", Platform: "linux", Config: Config{Release: true}}
	debug := Workspace{Root: "root", Platform: "linux"}

	env := &memoryState{entries: []string{"/usr/bin", debug.BinDir()}}
	ReconcilePath(env, release)

	if env.Contains(debug.BinDir()) {
		t.Errorf("debug sibling still on path: %v", env.List())
	}
	if !env.Contains(release.BinDir()) {
		t.Errorf("release dir missing from path: %v", env.List())
	}

	// And the other way around.
	env = &memoryState{entries: []string{"/usr/bin", release.BinDir()}}
	ReconcilePath(env, debug)

	if env.Contains(release.BinDir()) {
		t.Errorf("release sibling still on path: %v", env.List())
	}
	if !env.Contains(debug.BinDir()) {
		t.Errorf("debug dir missing from path: %v", env.List())
	}
}

func TestReconcilePathIdempotent(t *testing.T) {
	ws := Workspace{Root: "root", Platform: "linux"}
	env := &memoryState{entries: []string{"/usr/bin", ws.SiblingBinDir()}}

	ReconcilePath(env, ws)
	once := env.List()

	ReconcilePath(env, ws)
	twice := env.List()

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second reconcile changed the path: %v != %v", once, twice)
	}
}

func TestProcessList(t *testing.T) {
	const name = "DSCBUILD_TEST_LIST"
	sep := string(os.PathListSeparator)

	t.Setenv(name, strings.Join([]string{"one", "two"}, sep))
	state := NewProcessList(name)

	if got := state.List(); len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("List() = %v", got)
	}
	if !state.Contains("two") || state.Contains("three") {
		t.Error("Contains() gave wrong answers")
	}

	state.Append("three")
	if !state.Contains("three") {
		t.Errorf("Append did not add the entry: %v", state.List())
	}

	state.Remove("two")
	if state.Contains("two") {
		t.Errorf("Remove did not drop the entry: %v", state.List())
	}
	if got := state.List(); !reflect.DeepEqual(got, []string{"one", "three"}) {
		t.Errorf("List() = %v, want [one three]", got)
	}
}

func TestProcessListAppendToEmpty(t *testing.T) {
	const name = "DSCBUILD_TEST_EMPTY"
	t.Setenv(name, "")

	state := NewProcessList(name)
	state.Append("only")

	if got := state.List(); !reflect.DeepEqual(got, []string{"only"}) {
		t.Errorf("List() = %v, want [only]", got)
	}
}
