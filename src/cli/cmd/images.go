package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sofmeright/dockhand/src/registry"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Query and manage built images",
}

func init() {
	rootCmd.AddCommand(imagesCmd)
}

// newRegistryClient builds the image store client from config.
func newRegistryClient() (*registry.Client, error) {
	log, err := newLogger()
	if err != nil {
		return nil, err
	}
	return registry.NewClient(cfg.Build.DockerBin, cfg.Build.TagPrefix, log), nil
}
