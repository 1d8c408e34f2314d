package manifmerge

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Merge completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitManifestMissing = 11 // An input manifest file was not found
	ExitApprovalDenied  = 12 // User declined overwriting the output file
	ExitMergeFailed     = 13 // Merge produced ERROR-severity report entries
	ExitMalformedInput  = 14 // Input XML or tools: instruction is malformed
)

const (
	// DefaultTimeout bounds a whole merge run including file I/O. The merge
	// itself is in-memory and fast; the bound protects against pathological
	// inputs.
	DefaultTimeout = 1 * time.Minute

	// DefaultOutputName is the merged manifest filename used when the
	// output flag names a directory.
	DefaultOutputName = "AndroidManifest.xml"

	// MaxDiffPreviewLength is the maximum number of characters of a
	// structural diff quoted inside a single report message. Longer diffs
	// are truncated with an ellipsis to keep console output readable.
	MaxDiffPreviewLength = 400

	// PlaceholderApplicationID is the placeholder name that defaults to the
	// merged document's package name.
	PlaceholderApplicationID = "applicationId"
)
