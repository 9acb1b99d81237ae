package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andyleejordan/DSC/pkg"
)

// manifestPatterns are the declarative resource files copied next to the
// binaries so the staged directory is usable on its own.
var manifestPatterns = []string{"*.resource.json", "*.resource.ps1", "*.command.json"}

// Build runs the build or lint step for every project in order and reports
// whether any of them failed. A broken project never stops the loop: one run
// should surface every failure in the workspace, not just the first.
func Build(ctx context.Context, ws Workspace, projects []Project, runner Runner) bool {
	binDir := ws.BinDir()
	failed := false

	for _, project := range projects {
		projectDir := filepath.Join(ws.Root, filepath.FromSlash(project.Name))

		err := pkg.WithWorkingDirectory(projectDir, func() error {
			_, err := os.Stat("Cargo.toml")
			if err != nil {
				// Auxiliary projects ship only resource files, stage those
				// and move on.
				log(ctx).Info().Str("project", project.Name).Msg("no Cargo.toml, nothing to build")
				stageManifests(projectDir, binDir)
				return nil
			}

			if ws.Config.Clippy {
				pkg.PrintTask("Linting " + project.Name)
			} else {
				pkg.PrintTask("Building " + project.Name)
			}

			err = runner.Run(ctx, "cargo", toolArgs(project, ws.Config)...)
			if err != nil {
				pkg.PrintError(project.Name + " failed")
				failed = true
			}

			exe := filepath.Base(project.Name) + ws.exeSuffix()
			pkg.TryCopy(filepath.Join(ws.Config.TargetDir(projectDir), exe), filepath.Join(binDir, exe))
			stageManifests(projectDir, binDir)
			return nil
		})
		if err != nil {
			log(ctx).Error().Err(err).Str("project", project.Name).Msg("Could not enter the project directory")
			failed = true
		}
	}

	return failed
}

// toolArgs assembles the cargo argument list for one project. Lint runs treat
// every warning as an error and add the pedantic ruleset for the projects
// that opted into it.
func toolArgs(project Project, cfg Config) []string {
	if cfg.Clippy {
		args := []string{"clippy", "--", "-Dwarnings"}
		if project.Pedantic {
			args = append(args, "-Dclippy::pedantic")
		}
		return args
	}

	args := []string{"build"}
	if cfg.Release {
		args = append(args, "--release")
	}
	if cfg.Architecture != ArchNative {
		args = append(args, "--target", cfg.Architecture)
	}
	return args
}

// stageManifests copies the project's resource manifests into the staged
// output, overwriting older copies. Absence is not an error, most projects
// ship none.
func stageManifests(projectDir, binDir string) {
	for _, pattern := range manifestPatterns {
		matches, err := filepath.Glob(filepath.Join(projectDir, pattern))
		if err != nil {
			continue
		}

		for _, match := range matches {
			pkg.TryCopy(match, filepath.Join(binDir, filepath.Base(match)))
		}
	}
}
