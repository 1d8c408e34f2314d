package instructions

import "fmt"

// InstructionError is a hard failure: the input document uses the reserved
// merge-instruction namespace in a way this engine cannot interpret. It
// carries the offending location and a hint, and is raised immediately
// rather than recorded in the merging report.
type InstructionError struct {
	// Location is "source:line:column" of the offending element.
	Location string

	// Message describes the problem.
	Message string

	// Hint suggests how to fix it.
	Hint string
}

// Error implements the error interface.
func (e *InstructionError) Error() string {
	msg := e.Message
	if e.Location != "" {
		msg = fmt.Sprintf("%s: %s", e.Location, msg)
	}
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	return msg
}
