// Package ui implements the Approver interface for the console: interactive
// confirmation before replacing an existing merged manifest, and a
// non-interactive variant for scripted runs.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apkforge/manifmerge/pkg/manifmerge"
)

// ForcedApprover approves without prompting. Used when stdin is not a
// terminal, where an interactive prompt would hang a scripted build.
type ForcedApprover struct {
	output io.Writer
}

// NewForcedApprover creates a new ForcedApprover.
func NewForcedApprover() manifmerge.Approver {
	return &ForcedApprover{output: os.Stderr}
}

// RequestApproval announces the overwrite and approves.
func (a *ForcedApprover) RequestApproval(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(a.output, "Overwriting existing output %s\n", path)
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ manifmerge.Approver = (*ForcedApprover)(nil)
