package cli

import (
	"context"
	"io"
)

// RunWithWriter runs the CLI with command output sent to w
func RunWithWriter(ctx context.Context, args []string, version string, w io.Writer) error {
	return run(ctx, args, version, w)
}

type IndexChange = indexChange

var IndexChanges = indexChanges
