package pipeline

import (
	"io"
)

// FormatError renders one validation error line, prefixed with the record
// identifier when there is one.
func FormatError(id, msg string) string {
	if id == "" {
		return msg
	}
	return id + ": " + msg
}

// Reporter writes validation error lines as they occur
type Reporter struct {
	w io.Writer
}

// NewReporter returns a reporter writing to w
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report writes one line per message
func (r *Reporter) Report(id string, msgs []string) error {
	for _, msg := range msgs {
		if _, err := io.WriteString(r.w, FormatError(id, msg)+"\n"); err != nil {
			return err
		}
	}
	return nil
}
