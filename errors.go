package condition

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// ErrorKind identifies the taxonomy of domain failures this package raises.
// Every *Error carries one, mirroring how the teacher keys its typed CRUD
// errors off goerrors.Category plus a stable TextCode.
type ErrorKind string

const (
	KindSyntaxError           ErrorKind = "SYNTAX_ERROR"
	KindUnknownField          ErrorKind = "UNKNOWN_FIELD"
	KindUnsupportedValueType  ErrorKind = "UNSUPPORTED_VALUE_TYPE"
	KindFieldRequired         ErrorKind = "FIELD_REQUIRED"
	KindValuesOverflow        ErrorKind = "VALUES_OVERFLOW"
	KindGroupsOverflow        ErrorKind = "GROUPS_OVERFLOW"
	KindGroupsNesting         ErrorKind = "GROUPS_NESTING"
	KindInputProcessor        ErrorKind = "INPUT_PROCESSOR"
)

var kindCategory = map[ErrorKind]goerrors.Category{
	KindSyntaxError:          goerrors.CategoryBadInput,
	KindUnknownField:         goerrors.CategoryValidation,
	KindUnsupportedValueType: goerrors.CategoryValidation,
	KindFieldRequired:        goerrors.CategoryValidation,
	KindValuesOverflow:       goerrors.CategoryBadInput,
	KindGroupsOverflow:       goerrors.CategoryBadInput,
	KindGroupsNesting:        goerrors.CategoryBadInput,
	KindInputProcessor:       goerrors.CategoryBadInput,
}

// Error is the domain error surfaced by every component in this package.
// It wraps github.com/goliatone/go-errors the same way the teacher's
// error_encoder.go wraps NotFoundError/ValidationError: a stable Kind,
// plus Category/TextCode/Metadata on the embedded *goerrors.Error for
// callers that want structured handling rather than string matching.
type Error struct {
	Kind     ErrorKind
	Message  string
	Metadata map[string]any

	inner *goerrors.Error
}

func newError(kind ErrorKind, message string, metadata map[string]any) *Error {
	category, ok := kindCategory[kind]
	if !ok {
		category = goerrors.CategoryInternal
	}

	inner := goerrors.New(message, category).WithTextCode(string(kind))
	if len(metadata) > 0 {
		inner.WithMetadata(metadata)
	}

	return &Error{
		Kind:     kind,
		Message:  message,
		Metadata: metadata,
		inner:    inner,
	}
}

func (e *Error) Error() string {
	if e == nil {
		return "condition: error"
	}
	return e.Message
}

// Unwrap exposes the embedded go-errors value so callers can use
// errors.As(err, &goErr) to reach Category/TextCode/Metadata directly.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.inner
}

// GoError returns the underlying *goerrors.Error.
func (e *Error) GoError() *goerrors.Error {
	if e == nil {
		return nil
	}
	return e.inner
}

// NewSyntaxError reports a lexer/parser grammar mismatch. message follows
// the exact "line 0, col <pos>: Error: Expected '<expected>', got '<got>'"
// shape required by §6 of the specification.
func NewSyntaxError(position int, expected, got string) *Error {
	message := fmt.Sprintf("line 0, col %d: Error: Expected '%s', got '%s'", position, expected, got)
	return newError(KindSyntaxError, message, map[string]any{"position": position})
}

// NewUnknownFieldError reports a field name absent from the FieldSet.
func NewUnknownFieldError(fieldName string) *Error {
	return newError(KindUnknownField, fmt.Sprintf("unknown field %q", fieldName), map[string]any{
		"fieldName": fieldName,
	})
}

// NewUnsupportedValueTypeError reports a value kind a field's FieldConfig
// does not accept.
func NewUnsupportedValueTypeError(fieldName, valueType string) *Error {
	return newError(KindUnsupportedValueType, fmt.Sprintf("field %q does not accept %s values", fieldName, valueType), map[string]any{
		"fieldName": fieldName,
		"valueType": valueType,
	})
}

// NewFieldRequiredError reports a required field missing from a group.
func NewFieldRequiredError(fieldName string, groupIdx, level int) *Error {
	return newError(KindFieldRequired, fmt.Sprintf("field %q is required in group %d at level %d", fieldName, groupIdx, level), map[string]any{
		"fieldName": fieldName,
		"groupIdx":  groupIdx,
		"level":     level,
	})
}

// NewValuesOverflowError reports a bag exceeding its configured max value count.
func NewValuesOverflowError(fieldName string, max, current, groupIdx, level int) *Error {
	return newError(KindValuesOverflow, fmt.Sprintf("field %q exceeds max values %d (got %d)", fieldName, max, current), map[string]any{
		"fieldName": fieldName,
		"max":       max,
		"current":   current,
		"groupIdx":  groupIdx,
		"level":     level,
	})
}

// NewGroupsOverflowError reports too many direct subgroups.
func NewGroupsOverflowError(max, current, groupIdx, level int) *Error {
	return newError(KindGroupsOverflow, fmt.Sprintf("group exceeds max subgroups %d (got %d)", max, current), map[string]any{
		"max":      max,
		"current":  current,
		"groupIdx": groupIdx,
		"level":    level,
	})
}

// NewGroupsNestingError reports nesting depth exceeding the configured max.
func NewGroupsNestingError(max, groupIdx, level int) *Error {
	return newError(KindGroupsNesting, fmt.Sprintf("group nesting exceeds max depth %d (at level %d)", max, level), map[string]any{
		"max":      max,
		"groupIdx": groupIdx,
		"level":    level,
	})
}

// NewInputProcessorError reports a malformed structured document (invalid
// JSON/XML payload, wrong shape, etc).
func NewInputProcessorError(message string) *Error {
	return newError(KindInputProcessor, message, nil)
}

// ValuesError is a normalization-pipeline failure attached to a bag. Unlike
// the kinds above it never aborts the whole process call; it accumulates on
// the bag and is surfaced through Bag.HasErrors/Group.HasErrors.
type ValuesError struct {
	Pass    string
	Field   string
	Message string
}

func (e *ValuesError) Error() string {
	if e == nil {
		return "values error"
	}
	return fmt.Sprintf("%s: field %q: %s", e.Pass, e.Field, e.Message)
}
