package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apkforge/manifmerge/pkg/manifmerge"
)

// InteractiveApprover prompts on the terminal before replacing an existing
// merged manifest.
type InteractiveApprover struct {
	output io.Writer
	input  io.Reader
}

// NewInteractiveApprover creates a new InteractiveApprover.
func NewInteractiveApprover() manifmerge.Approver {
	return &InteractiveApprover{output: os.Stderr, input: os.Stdin}
}

// RequestApproval asks the user whether the file at path may be replaced.
// Only "y" or "yes" approves; anything else, including EOF, denies.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, path string) (bool, error) {
	fmt.Fprintf(a.output, "Output file %s already exists. Overwrite? [y/N]: ", path)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(line)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-errChan:
		fmt.Fprintln(a.output, "No input, keeping the existing file.")
		return false, nil
	case answer := <-inputChan:
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		default:
			fmt.Fprintln(a.output, "Keeping the existing file.")
			return false, nil
		}
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ manifmerge.Approver = (*InteractiveApprover)(nil)
