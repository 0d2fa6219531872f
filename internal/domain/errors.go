package domain

import (
	"errors"
	"fmt"
)

type ValidationReason string

const (
	ReasonMissingField     ValidationReason = "missing_field"
	ReasonMalformedDate    ValidationReason = "malformed_date"
	ReasonMalformedPayload ValidationReason = "malformed_payload"
	ReasonNegativeValue    ValidationReason = "negative_value"
)

// ValidationError reports input that can never be appended. It is never retried.
type ValidationError struct {
	Field  string
	Reason ValidationReason
	Err    error
}

func (e ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Reason, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	default:
		return string(e.Reason)
	}
}

func (e ValidationError) Unwrap() error { return e.Err }

// TransientStoreError is a ledger failure that may succeed on retry
// (rate limit, network blip, call timeout).
type TransientStoreError struct {
	Msg      string
	Attempts int
	Err      error
}

func (e TransientStoreError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "ledger temporarily unavailable"
	}
	if e.Attempts > 0 {
		msg = fmt.Sprintf("%s after %d attempts", msg, e.Attempts)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e TransientStoreError) Unwrap() error { return e.Err }

// PermanentStoreError is a ledger failure retrying cannot fix (auth, missing sheet).
type PermanentStoreError struct {
	Msg string
	Err error
}

func (e PermanentStoreError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "ledger rejected the row"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e PermanentStoreError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsTransientStore(err error) bool {
	var target TransientStoreError
	return errors.As(err, &target)
}

func IsPermanentStore(err error) bool {
	var target PermanentStoreError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// Kind names the error taxonomy entry of err, used for logs and response codes.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsValidation(err):
		return "validation_error"
	case IsPermanentStore(err):
		return "permanent_store_error"
	case IsTransientStore(err):
		return "transient_store_error"
	default:
		return "internal_error"
	}
}
