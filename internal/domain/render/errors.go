package render

import "fmt"

// ValidationError reports batch input that cannot be turned into work.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// TemplateError reports an output template that references an unknown placeholder.
type TemplateError struct {
	Template    string
	Placeholder string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("output template %q references unknown placeholder {%s}", e.Template, e.Placeholder)
}

// OperationError reports a failed render-engine operation.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("engine operation %s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
