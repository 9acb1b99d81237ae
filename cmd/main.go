package cmd

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/andyleejordan/DSC/pkg"
	"github.com/andyleejordan/DSC/pkg/pipeline"
)

var (
	flagRelease      bool
	flagArchitecture string
	flagClippy       bool
	flagTest         bool
)

var rootCmd = &cobra.Command{
	Use:   "dscbuild",
	Short: "Build and test the DSC workspace",
	Long: `This command builds every project in the workspace, stages the binaries and
resource manifests under bin/, and optionally lints the projects or runs their
tests plus the resource test suite.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := zerolog.New(NewConsoleWriter())
		ctx := pipeline.WithLogger(context.Background(), &logger)

		cfg, err := pipeline.NewConfig(flagRelease, flagArchitecture, flagClippy, flagTest)
		if err != nil {
			return err
		}

		root, err := pkg.GetProjectRoot()
		if err != nil {
			return err
		}

		ws := pipeline.Workspace{
			Root:     root,
			Platform: runtime.GOOS,
			Config:   cfg,
		}

		manifest, err := pipeline.LoadManifest(filepath.Join(root, "projects.yml"))
		if err != nil {
			return err
		}
		projects := manifest.ProjectsFor(ws.Platform)

		searchPath := pipeline.NewProcessList("PATH")

		err = pipeline.EnsureToolchain(ctx, searchPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to provision the Rust toolchain")
		}

		binDir, err := pipeline.Stage(ws)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to stage the output directory")
		}

		runner := pipeline.ExecRunner{}
		failed := pipeline.Build(ctx, ws, projects, runner)

		pipeline.ReconcilePath(searchPath, ws)

		if cfg.Test {
			modulePath := pipeline.NewProcessList("PSModulePath")
			err = pipeline.Test(ctx, ws, manifest, runner, modulePath)
			if err != nil {
				logger.Fatal().Err(err).Msg("Test phase failed")
			}
		}

		// Keep backtraces on for everything launched from this environment.
		os.Setenv("RUST_BACKTRACE", "1")

		if failed {
			pkg.PrintError("Build failed")
			os.Exit(1)
		}

		pkg.PrintSubtask("Binaries are in " + binDir)
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&flagRelease, "release", "r", false, "build in release mode (bin/release instead of bin/debug)")
	rootCmd.Flags().StringVarP(&flagArchitecture, "architecture", "a", "", "cross-compilation target triple")
	rootCmd.Flags().BoolVar(&flagClippy, "clippy", false, "lint the projects instead of building them")
	rootCmd.Flags().BoolVarP(&flagTest, "test", "t", false, "run the test phase after building")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
