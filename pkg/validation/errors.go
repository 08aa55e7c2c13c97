package validation

import "fmt"

// InvalidURIError indicates a string that cannot be decomposed per the
// generic URI grammar. Rule checks translate it into the invalidUri
// finding; it only escapes as an error from ParseURI itself.
type InvalidURIError struct {
	Raw string
	Err error
}

func (e *InvalidURIError) Error() string {
	return fmt.Sprintf("invalid URI %q: %v", e.Raw, e.Err)
}

func (e *InvalidURIError) Unwrap() error {
	return e.Err
}

// UnknownApplicationTypeError is a precondition violation: the caller
// supplied an application type outside the known set. This is a caller
// bug, distinct from a validation finding.
type UnknownApplicationTypeError struct {
	Value string
}

func (e *UnknownApplicationTypeError) Error() string {
	return fmt.Sprintf("unknown application type: %q", e.Value)
}
