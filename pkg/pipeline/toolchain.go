package pipeline

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

const (
	rustupShellURL = "https://sh.rustup.rs"
	rustupExeURL   = "https://win.rustup.rs/x86_64"
)

// EnsureToolchain checks that cargo is reachable and bootstraps rustup when
// it is not. Provisioning errors are not recovered from: nothing else in the
// pipeline works without a toolchain.
func EnsureToolchain(ctx context.Context, env EnvironmentState) error {
	_, err := exec.LookPath("cargo")
	if err == nil {
		return nil
	}

	log(ctx).Info().Msg("Rust not found, installing it")

	if runtime.GOOS == "windows" {
		err = bootstrapWindows(ctx)
	} else {
		err = bootstrapPosix(ctx)
	}
	if err != nil {
		return err
	}

	// The installer writes cargo into ~/.cargo/bin but only updates shell
	// profiles, not our environment.
	_, err = exec.LookPath("cargo")
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return eris.Wrap(herr, "Failed to locate the home directory")
		}

		env.Append(filepath.Join(home, ".cargo", "bin"))
	}

	return nil
}

// bootstrapPosix fetches the rustup bootstrap script and runs it in-process
// with the embedded shell interpreter, passing -y for an unattended install.
func bootstrapPosix(ctx context.Context) error {
	scriptPath := filepath.Join(os.TempDir(), "rustup-init.sh")
	err := download(rustupShellURL, scriptPath)
	if err != nil {
		return err
	}
	defer os.Remove(scriptPath)

	handle, err := os.Open(scriptPath)
	if err != nil {
		return eris.Wrapf(err, "Failed to open %s", scriptPath)
	}
	defer handle.Close()

	script, err := syntax.NewParser().Parse(handle, scriptPath)
	if err != nil {
		return eris.Wrap(err, "Failed to parse the rustup bootstrap script")
	}

	runner, err := interp.New(
		interp.StdIO(nil, os.Stdout, os.Stderr),
		interp.Params("--", "-y"),
	)
	if err != nil {
		return eris.Wrap(err, "Failed to initialize the script runner")
	}

	err = runner.Run(ctx, script)
	if err != nil {
		return eris.Wrap(err, "The rustup bootstrap script failed")
	}

	return nil
}

// bootstrapWindows fetches rustup-init.exe and runs it unattended.
func bootstrapWindows(ctx context.Context) error {
	exePath := filepath.Join(os.TempDir(), "rustup-init.exe")
	err := download(rustupExeURL, exePath)
	if err != nil {
		return err
	}
	defer os.Remove(exePath)

	cmd := exec.CommandContext(ctx, exePath, "-y")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err = cmd.Run()
	if err != nil {
		return eris.Wrap(err, "rustup-init.exe failed")
	}

	return nil
}

func download(url, dest string) error {
	client := &http.Client{Timeout: time.Minute * 5}
	resp, err := client.Get(url)
	if err != nil {
		return eris.Wrapf(err, "Failed to start download for %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("Unexpected status %s for %s", resp.Status, url)
	}

	handle, err := os.Create(dest)
	if err != nil {
		return eris.Wrapf(err, "Failed to create %s", dest)
	}
	defer handle.Close()

	bar := getProgressBar(resp.ContentLength, "     download")
	_, err = io.Copy(io.MultiWriter(handle, bar), resp.Body)
	if err != nil {
		return eris.Wrapf(err, "Failed to download %s", url)
	}

	return nil
}

func getProgressBar(length int64, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		// GitHub's log renders the bar as a wall of newlines, hide it there.
		return progressbar.NewOptions64(length, progressbar.OptionSetVisibility(false))
	}

	return progressbar.DefaultBytes(length, desc)
}
