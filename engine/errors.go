package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorCode int

const (
	DefinitionError ErrorCode = iota + 1
	NameResolutionError
	ParseError
	InstantiationError
	EvaluationError
)

func (ec ErrorCode) String() string {
	switch ec {
	case DefinitionError:
		return "definition error"
	case NameResolutionError:
		return "name resolution error"
	case ParseError:
		return "parse error"
	case InstantiationError:
		return "instantiation error"
	case EvaluationError:
		return "evaluation error"
	}
	return fmt.Sprintf("ErrorCode(%d)", int(ec))
}

// Error is reported by columns: definition errors are kept until the column is redefined
// and evaluation errors until the next evaluation attempt.
type Error struct {
	Code        ErrorCode
	Message     string
	Description string
	cause       error
}

func NewError(code ErrorCode, msg, desc string, cause error) *Error {
	return &Error{
		Code:        code,
		Message:     msg,
		Description: desc,
		cause:       cause,
	}
}

func (e *Error) Error() string {
	s := fmt.Sprintf("engine: %s: %s", e.Code, e.Message)
	if e.Description != "" {
		s += ": " + e.Description
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) Unwrap() error {
	return e.cause
}

// AsError returns err itself if it is (or wraps) an *Error; otherwise err becomes the
// cause of a new *Error with code and msg.
func AsError(err error, code ErrorCode, msg string) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(code, msg, "", err)
}

func cyclicDependencyError() *Error {
	return NewError(DefinitionError, "cyclic dependency",
		"this column depends on itself directly or indirectly", nil)
}

// rowErrors collects the errors of the rows of one evaluation attempt; at most max errors
// are kept (all of them if max <= 0) and the rest are counted.
type rowErrors struct {
	max     int
	errs    []*Error
	skipped int
}

func (re *rowErrors) add(row int64, err error) {
	if re.max > 0 && len(re.errs) >= re.max {
		re.skipped += 1
		return
	}
	re.errs = append(re.errs,
		NewError(EvaluationError, fmt.Sprintf("row %d", row), "", err))
}

func (re *rowErrors) errors() []*Error {
	if re.skipped > 0 {
		return append(re.errs, NewError(EvaluationError,
			fmt.Sprintf("%d more rows failed", re.skipped), "", nil))
	}
	return re.errs
}
