package report

import "fmt"

// Recorder accumulates actions and messages during one merge run. It is
// append-only and single-writer: one merge pass owns one Recorder, and no
// concurrent access happens within a run.
type Recorder struct {
	actions  []Record
	messages []Message
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordAction appends a node-level decision.
func (r *Recorder) RecordAction(target string, action ActionType, loc Location, reason string) {
	r.actions = append(r.actions, Record{
		Target:   target,
		Action:   action,
		Location: loc,
		Reason:   reason,
	})
}

// RecordMergeAction appends a decision involving a secondary contributor
// (the lower-priority node the decision was made against).
func (r *Recorder) RecordMergeAction(target string, action ActionType, loc Location, from Location, reason string) {
	r.actions = append(r.actions, Record{
		Target:     target,
		Action:     action,
		Location:   loc,
		MergedFrom: &from,
		Reason:     reason,
	})
}

// Info appends an informational message.
func (r *Recorder) Info(loc Location, format string, args ...interface{}) {
	r.append(SeverityInfo, loc, format, args...)
}

// Warning appends a warning message. Warnings never fail the run.
func (r *Recorder) Warning(loc Location, format string, args ...interface{}) {
	r.append(SeverityWarning, loc, format, args...)
}

// Error appends an ERROR-severity message. The merge continues past it;
// the finished report fails the run instead.
func (r *Recorder) Error(loc Location, format string, args ...interface{}) {
	r.append(SeverityError, loc, format, args...)
}

func (r *Recorder) append(sev Severity, loc Location, format string, args ...interface{}) {
	r.messages = append(r.messages, Message{
		Severity: sev,
		Location: loc,
		Text:     fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any ERROR-severity message has been recorded so
// far.
func (r *Recorder) HasErrors() bool {
	for _, m := range r.messages {
		if m.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ActionCount returns the number of recorded actions.
func (r *Recorder) ActionCount() int {
	return len(r.actions)
}

// Build finalizes the recorder into a Report. digest is the checksum of the
// merged output, empty when the merge failed before serialization.
func (r *Recorder) Build(digest string) *Report {
	result := SeverityInfo
	for _, m := range r.messages {
		if m.Severity == SeverityError {
			result = SeverityError
			break
		}
		if m.Severity == SeverityWarning {
			result = SeverityWarning
		}
	}

	actions := make([]Record, len(r.actions))
	copy(actions, r.actions)
	messages := make([]Message, len(r.messages))
	copy(messages, r.messages)

	return &Report{
		RunID:    NewRunID(),
		Result:   result,
		Digest:   digest,
		Actions:  actions,
		Messages: messages,
	}
}
