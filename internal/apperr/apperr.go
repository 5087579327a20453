package apperr

import (
	"errors"
	"fmt"
)

// Kind groups error codes by how callers should react to them.
type Kind string

const (
	// KindValidation means the input was rejected and no state changed.
	KindValidation Kind = "validation"
	// KindExtraction means free text could not be turned into a draft.
	KindExtraction Kind = "extraction"
	// KindPartial means some fields were extracted but not enough to post.
	KindPartial Kind = "partial"
	// KindConsistency means an internal invariant or the store failed.
	KindConsistency Kind = "consistency"
)

// Error is the application error type. Two errors match under errors.Is
// when their codes are equal.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
	Details map[string]any
}

func (e Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is implements errors.Is matching on Code.
func (e Error) Is(target error) bool {
	if t, ok := target.(Error); ok {
		return t.Code == e.Code
	}
	return false
}

// Unwrap returns the underlying error.
func (e Error) Unwrap() error {
	return e.Err
}

// WithDetail adds a single detail to a copy of the error.
func (e Error) WithDetail(key string, value any) Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// Wrap returns a copy of the sentinel carrying a specific message and cause.
func (e Error) Wrap(message string, err error) Error {
	e.Message = message
	e.Err = err
	return e
}

// Withf returns a copy of the sentinel with a formatted message.
func (e Error) Withf(format string, args ...any) Error {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

func newError(kind Kind, code, message string) Error {
	return Error{Kind: kind, Code: code, Message: message}
}

// Validation errors.
var (
	ErrEmptyEntry         = newError(KindValidation, "EMPTY_ENTRY", "entry has no lines")
	ErrUnknownAccount     = newError(KindValidation, "UNKNOWN_ACCOUNT", "unknown account")
	ErrInvalidLine        = newError(KindValidation, "INVALID_LINE", "invalid transaction line")
	ErrUnbalanced         = newError(KindValidation, "UNBALANCED", "debits do not equal credits")
	ErrZeroEntry          = newError(KindValidation, "ZERO_ENTRY", "entry total is zero")
	ErrDuplicateCode      = newError(KindValidation, "DUPLICATE_CODE", "account code already in use")
	ErrInvalidParentType  = newError(KindValidation, "INVALID_PARENT_TYPE", "child type differs from parent type")
	ErrUnknownParent      = newError(KindValidation, "UNKNOWN_PARENT", "parent account not found")
	ErrInvalidCode        = newError(KindValidation, "INVALID_CODE", "account code does not extend its parent code")
	ErrInvalidAccount     = newError(KindValidation, "INVALID_ACCOUNT", "invalid account")
	ErrCodeSpaceExhausted = newError(KindValidation, "CODE_SPACE_EXHAUSTED", "no free code suffix left")
	ErrEntryNotFound      = newError(KindValidation, "ENTRY_NOT_FOUND", "journal entry not found")
	ErrAlreadyReversed    = newError(KindValidation, "ALREADY_REVERSED", "journal entry already reversed")
	ErrInvalidRange       = newError(KindValidation, "INVALID_RANGE", "range start is after its end")
	ErrInactiveAccount    = newError(KindValidation, "INACTIVE_ACCOUNT", "account is inactive")
)

// Extraction errors.
var (
	ErrUnrecognizedIntent        = newError(KindExtraction, "UNRECOGNIZED_INTENT", "no payment or receipt verb found")
	ErrAmountNotFound            = newError(KindExtraction, "AMOUNT_NOT_FOUND", "no single amount found")
	ErrLowConfidenceCounterparty = newError(KindExtraction, "LOW_CONFIDENCE_COUNTERPARTY", "counterparty could not be matched")
)

// Partial errors.
var (
	ErrIncompleteReceipt = newError(KindPartial, "INCOMPLETE_RECEIPT", "receipt is missing required fields")
)

// Consistency errors.
var (
	ErrCommitFailed          = newError(KindConsistency, "COMMIT_FAILED", "entry could not be persisted")
	ErrTrialBalanceMismatch  = newError(KindConsistency, "TRIAL_BALANCE_MISMATCH", "trial balance does not sum to zero")
	ErrInconsistentAggregate = newError(KindConsistency, "INCONSISTENT_AGGREGATE", "account aggregates out of step")
)

// KindOf returns the kind of the first Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf returns the code of the first Error in err's chain, or "" if none.
func CodeOf(err error) string {
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
