package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sofmeright/dockhand/src/output"
)

var pruneDryRun bool

var imagesPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete every image dockhand has built",
	Long: `Delete all images carrying this system's tag prefix from the local
daemon. Only prefix-matching images are candidates; everything else in
the image store is untouched.

Use --dry-run to preview what would be deleted without deleting.`,
	RunE: runImagesPrune,
}

func init() {
	imagesPruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "show what would be deleted without deleting")

	imagesCmd.AddCommand(imagesPruneCmd)
}

func runImagesPrune(cmd *cobra.Command, args []string) error {
	reg, err := newRegistryClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	color := output.UseColor()
	sec := output.NewSection(os.Stdout, "Prune", color)
	defer sec.Close()

	images := reg.ListAll(ctx)
	if len(images) == 0 {
		sec.Row("nothing to prune")
		return nil
	}

	deleted := 0
	for _, img := range images {
		if pruneDryRun {
			sec.Row("would delete %s", img.Ref())
			continue
		}
		ok := reg.Delete(ctx, img.Ref())
		sec.Row("%s %s", output.Status(ok, color), img.Ref())
		if ok {
			deleted++
		}
	}
	if !pruneDryRun {
		sec.Separator()
		sec.Row("deleted %d of %d", deleted, len(images))
	}
	return nil
}
