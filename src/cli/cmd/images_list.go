package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sofmeright/dockhand/src/output"
)

var imagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List images built by dockhand",
	RunE:  runImagesList,
}

func init() {
	imagesCmd.AddCommand(imagesListCmd)
}

func runImagesList(cmd *cobra.Command, args []string) error {
	reg, err := newRegistryClient()
	if err != nil {
		return err
	}

	color := output.UseColor()
	sec := output.NewSection(os.Stdout, "Images", color)
	defer sec.Close()

	images := reg.ListAll(context.Background())
	if len(images) == 0 {
		sec.Row("no images")
		return nil
	}
	for _, img := range images {
		sec.Row("%-40s %-14s %s", img.Ref(), img.Size, img.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
