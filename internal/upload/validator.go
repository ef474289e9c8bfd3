// Package upload validates file selections before they reach the network.
package upload

import "strings"

// Reason identifies why a selection was rejected.
type Reason string

const (
	ReasonEmptySelection   Reason = "empty-selection"
	ReasonInvalidExtension Reason = "invalid-extension"
)

// ValidationError reports a rejected selection. It is produced locally,
// before any network call.
type ValidationError struct {
	Reason   Reason
	Filename string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmptySelection:
		return "no file selected"
	case ReasonInvalidExtension:
		return "Only PDF files are allowed"
	}
	return string(e.Reason)
}

// Validate applies the single-file upload policy to a candidate selection:
// the first file wins (extras are ignored, not an error) and its name must
// end in .pdf, case-insensitively. Pure function, no I/O.
func Validate(filenames []string) (string, error) {
	if len(filenames) == 0 {
		return "", &ValidationError{Reason: ReasonEmptySelection}
	}
	name := filenames[0]
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return "", &ValidationError{Reason: ReasonInvalidExtension, Filename: name}
	}
	return name, nil
}
