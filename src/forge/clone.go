package forge

import (
	"context"
	"fmt"
	"io"

	git "github.com/go-git/go-git/v5"
)

// Clone shallow-clones a repository into dir. The checkout becomes the
// source half of a build context; detection runs over it afterwards.
func Clone(ctx context.Context, url, dir string, progress io.Writer) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:      url,
		Progress: progress,
		Depth:    1,
	})
	if err != nil {
		return fmt.Errorf("cloning %s: %w", url, err)
	}
	return nil
}
