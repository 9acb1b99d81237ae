package pkg

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
)

// GetProjectRoot walks up from the current working directory until it finds
// the workspace manifest (projects.yml).
func GetProjectRoot() (string, error) {
	path, err := os.Getwd()
	if err != nil {
		return "", eris.Wrap(err, "Failed to retrieve the current working directory")
	}

	for {
		manifest := filepath.Join(path, "projects.yml")
		_, err := os.Stat(manifest)
		if err == nil {
			return path, nil
		}

		if !eris.Is(err, os.ErrNotExist) {
			return "", eris.Wrapf(err, "Failed to check %s", manifest)
		}

		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}

	return "", eris.New("Workspace root not found (no projects.yml in any parent directory)")
}

// WithWorkingDirectory runs action inside path and returns to the previous
// working directory on every exit path, including when action fails.
func WithWorkingDirectory(path string, action func() error) error {
	prev, err := os.Getwd()
	if err != nil {
		return eris.Wrap(err, "Failed to retrieve the current working directory")
	}

	err = os.Chdir(path)
	if err != nil {
		return eris.Wrapf(err, "Failed to enter %s", path)
	}
	defer func() {
		_ = os.Chdir(prev)
	}()

	return action()
}

// TryCopy copies src over dst and reports whether it succeeded. Errors are
// swallowed on purpose: callers use it for artifacts that may legitimately
// not exist, like the executable of a library-only crate.
func TryCopy(src, dst string) bool {
	in, err := os.Open(src)
	if err != nil {
		return false
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return false
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return false
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err == nil
}

func PrintTask(msg string) {
	colorstring.Printf("[blue][bold]==>[default] %s\n", msg)
}

func PrintSubtask(msg string) {
	colorstring.Printf("[green][bold]  ->[reset] %s\n", msg)
}

func PrintError(msg string) {
	colorstring.Printf("[red][bold]  ->[reset] %s\n", msg)
}
