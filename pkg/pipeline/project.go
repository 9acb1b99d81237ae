package pipeline

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Project describes one buildable directory of the workspace. Name is the
// directory path relative to the workspace root (slash-separated).
type Project struct {
	Name     string `yaml:"name"`
	Platform string `yaml:"platform,omitempty"`
	Pedantic bool   `yaml:"pedantic,omitempty"`
}

// TestModule pins a third-party module the test phase installs before running
// the resource test suite.
type TestModule struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Manifest is the parsed projects.yml.
type Manifest struct {
	Projects    []Project    `yaml:"projects"`
	TestModules []TestModule `yaml:"testModules"`
}

// LoadManifest reads and parses the workspace manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "Could not open file %s.", path)
	}

	var m Manifest
	err = yaml.Unmarshal(data, &m)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to parse %s.", path)
	}

	if len(m.Projects) == 0 {
		return nil, eris.Errorf("%s lists no projects", path)
	}

	return &m, nil
}

// ProjectsFor returns the projects to process on the given platform, in
// manifest order. Entries without a platform gate are always included.
func (m *Manifest) ProjectsFor(platform string) []Project {
	result := make([]Project, 0, len(m.Projects))
	for _, project := range m.Projects {
		if project.Platform == "" || project.Platform == platform {
			result = append(result, project)
		}
	}

	return result
}
