package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/andyleejordan/DSC/pkg"
)

// legacyModuleInfix marks PSModulePath entries that belong to the bundled
// Windows PowerShell module trees. Those entries shadow freshly installed
// module versions with the incompatible built-in ones.
var legacyModuleInfix = filepath.Join("WindowsPowerShell", "Modules")

// Test drives the optional test phase: install the pinned support modules,
// run every project's cargo tests, then hand the whole workspace to the
// resource test framework. Per-project failures aggregate like in the build
// loop, but an aggregated failure here is fatal instead of only setting the
// exit code.
func Test(ctx context.Context, ws Workspace, m *Manifest, runner Runner, modulePath EnvironmentState) error {
	err := installTestModules(ctx, m, runner)
	if err != nil {
		return err
	}

	failed := false
	for _, project := range m.ProjectsFor(ws.Platform) {
		projectDir := filepath.Join(ws.Root, filepath.FromSlash(project.Name))

		err := pkg.WithWorkingDirectory(projectDir, func() error {
			_, err := os.Stat("Cargo.toml")
			if err != nil {
				return nil
			}

			pkg.PrintTask("Testing " + project.Name)
			err = runner.Run(ctx, "cargo", "test")
			if err != nil {
				pkg.PrintError(project.Name + " tests failed")
				failed = true
			}
			return nil
		})
		if err != nil {
			log(ctx).Error().Err(err).Str("project", project.Name).Msg("Could not enter the project directory")
			failed = true
		}
	}

	if failed {
		return eris.New("Test failed")
	}

	if ws.Platform == "windows" {
		err = vendorTestModules(ctx, m, runner, modulePath)
		if err != nil {
			return err
		}
	}

	pkg.PrintTask("Running the resource test suite")
	err = pkg.WithWorkingDirectory(ws.Root, func() error {
		return runner.Run(ctx, "pwsh", "-NoLogo", "-NonInteractive", "-Command",
			"Invoke-Pester -ErrorAction Stop")
	})
	if err != nil {
		return eris.Wrap(err, "The resource test suite failed")
	}

	return nil
}

// installTestModules installs each pinned module unless the requested version
// is already available. The version check keeps repeated runs cheap, actual
// install mechanics are the package manager's problem.
func installTestModules(ctx context.Context, m *Manifest, runner Runner) error {
	for _, module := range m.TestModules {
		pkg.PrintSubtask("Ensuring module " + module.Name + " " + module.Version)

		script := fmt.Sprintf(
			"if (-not (Get-Module -ListAvailable -Name %s | Where-Object Version -eq '%s')) "+
				"{ Install-Module -Name %s -RequiredVersion '%s' -Force -Scope CurrentUser }",
			module.Name, module.Version, module.Name, module.Version)

		err := runner.Run(ctx, "pwsh", "-NoLogo", "-NonInteractive", "-Command", script)
		if err != nil {
			return eris.Wrapf(err, "Failed to install module %s", module.Name)
		}
	}

	return nil
}

// vendorTestModules removes the legacy built-in module directories from the
// module search path and saves the pinned modules into the first remaining
// entry so the test framework resolves to the right version.
func vendorTestModules(ctx context.Context, m *Manifest, runner Runner, modulePath EnvironmentState) error {
	for _, entry := range modulePath.List() {
		if strings.Contains(entry, legacyModuleInfix) {
			modulePath.Remove(entry)
		}
	}

	remaining := modulePath.List()
	if len(remaining) == 0 {
		return eris.New("No module search directories left after filtering")
	}

	for _, module := range m.TestModules {
		script := fmt.Sprintf("Save-Module -Name %s -RequiredVersion '%s' -Path '%s'",
			module.Name, module.Version, remaining[0])

		err := runner.Run(ctx, "pwsh", "-NoLogo", "-NonInteractive", "-Command", script)
		if err != nil {
			return eris.Wrapf(err, "Failed to vendor module %s", module.Name)
		}
	}

	return nil
}
