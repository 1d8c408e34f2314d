package manifmerge

import "errors"

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := merger.Merge(ctx, config)
//	if errors.Is(err, manifmerge.ErrMergeFailed) {
//	    // Inspect the report for the collected ERROR messages.
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrManifestNotFound indicates an input manifest file was not found.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrMergeFailed indicates the merge completed with ERROR-severity
	// report entries. The report still contains the best-effort merged tree
	// and every collected message.
	ErrMergeFailed = errors.New("manifest merge failed")

	// ErrApprovalDenied indicates the user declined overwriting the output.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrMalformedManifest indicates an input document violates the merge
	// contract itself (unparseable XML, malformed tools: instruction) and
	// the run stopped immediately.
	ErrMalformedManifest = errors.New("malformed manifest")

	// ErrReportNotFound indicates a report file to inspect was not found.
	ErrReportNotFound = errors.New("report not found")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrManifestNotFound):
		return ExitManifestMissing
	case errors.Is(err, ErrMalformedManifest):
		return ExitMalformedInput
	case errors.Is(err, ErrMergeFailed):
		return ExitMergeFailed
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrReportNotFound):
		return ExitConfigError
	}

	return ExitGeneralError
}
