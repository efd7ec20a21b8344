package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sofmeright/dockhand/src/builder"
	"github.com/sofmeright/dockhand/src/output"
)

var imagesInspectCmd = &cobra.Command{
	Use:   "inspect <build-id>",
	Short: "Inspect the image for one build id",
	Args:  cobra.ExactArgs(1),
	RunE:  runImagesInspect,
}

func init() {
	imagesCmd.AddCommand(imagesInspectCmd)
}

func runImagesInspect(cmd *cobra.Command, args []string) error {
	reg, err := newRegistryClient()
	if err != nil {
		return err
	}

	tag := builder.ImageTag(cfg.Build.TagPrefix, args[0])
	img := reg.Inspect(context.Background(), tag)
	if img == nil {
		return fmt.Errorf("no image for %s", tag)
	}

	sec := output.NewSection(os.Stdout, "Image", output.UseColor())
	sec.Row("ref:     %s", img.Ref())
	sec.Row("id:      %s", img.ID)
	sec.Row("size:    %s", img.Size)
	sec.Row("created: %s", img.CreatedAt.Format("2006-01-02 15:04:05"))
	sec.Close()
	return nil
}
