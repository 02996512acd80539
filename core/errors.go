package core

import "github.com/pkg/errors"

// FieldError reports a validation failure on a single named input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned by domain services when an input struct or an
// editing command carries invalid data. When Fields is set, the API reports
// them as a field -> message map; otherwise Err alone is reported.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FieldMap flattens Fields for transport; nil when no field details exist.
func (err ValidationError) FieldMap() map[string]string {
	if len(err.Fields) == 0 {
		return nil
	}
	flds := make(map[string]string, len(err.Fields))
	for _, fld := range err.Fields {
		flds[fld.Field] = fld.Error
	}
	return flds
}

// shutdown marks an error the running server cannot recover from, such as the
// session store rejecting a write for an open document. The HTTP error handler
// answers 500 and then triggers a graceful shutdown.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string { return s.message }

// IsShutdown checks the error chain for a shutdown error.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
