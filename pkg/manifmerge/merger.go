package manifmerge

import "context"

// Merger is the main interface for executing manifest merges.
// Implementations handle the full workflow: loading and parsing the ordered
// inputs, running the priority merge, injecting placeholders and properties,
// and writing the merged manifest and report.
type Merger interface {
	// Merge executes a merge using the provided configuration.
	// It returns ErrMergeFailed (wrapped) when the finished report contains
	// ERROR-severity entries; the report file, when configured, is written
	// either way so all collected errors can be inspected together.
	Merge(ctx context.Context, config MergeConfig) error
}

// Approver handles user interaction for approval workflows, in particular
// before overwriting an existing merged-manifest output file.
//
// Implementations:
//   - ForcedApprover: approves without prompting (--overwrite)
//   - InteractiveApprover: prompts the user on the terminal
type Approver interface {
	// RequestApproval prompts for confirmation before replacing path.
	//
	// Returns:
	//   - bool: true if approved, false if denied
	//   - error: any error that occurred during the approval process
	RequestApproval(ctx context.Context, path string) (bool, error)
}
