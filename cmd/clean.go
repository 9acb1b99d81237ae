package cmd

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/andyleejordan/DSC/pkg"
	"github.com/andyleejordan/DSC/pkg/pipeline"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes staged binaries and cargo build output",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := pkg.GetProjectRoot()
		if err != nil {
			return err
		}

		manifest, err := pipeline.LoadManifest(filepath.Join(root, "projects.yml"))
		if err != nil {
			return err
		}

		targets := []string{filepath.Join(root, "bin")}
		for _, project := range manifest.Projects {
			targets = append(targets, filepath.Join(root, filepath.FromSlash(project.Name), "target"))
		}

		for _, item := range targets {
			err := os.RemoveAll(item)
			if err != nil {
				return eris.Wrapf(err, "Could not delete %s", item)
			}
		}

		pkg.PrintSubtask("Removed build output")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
