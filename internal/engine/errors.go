package engine

import (
	"fmt"
	"strings"
)

// ErrorCode classifies a render failure. Codes describe diagram source
// problems and are recoverable by a user edit.
type ErrorCode string

const (
	CodeNoType    ErrorCode = "NO_TYPE"
	CodeSyntax    ErrorCode = "SYNTAX"
	CodeParse     ErrorCode = "PARSE"
	CodeReference ErrorCode = "REFERENCE"
	CodeDuplicate ErrorCode = "DUPLICATE"
	CodeUnknown   ErrorCode = "UNKNOWN"
)

// RenderError is a classified engine failure.
type RenderError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed (%s): %s", e.Code, e.Message)
}

func (e *RenderError) Unwrap() error { return e.Err }

// UserMessage returns the message shown to users: the category description
// for recognized codes, a generic fallback for UNKNOWN.
func (e *RenderError) UserMessage() string {
	switch e.Code {
	case CodeNoType:
		return "No diagram type detected. Start the code with a valid diagram type such as 'graph TD', 'sequenceDiagram' or 'gantt'."
	case CodeSyntax:
		return "Syntax error: check for typos, missing brackets, or quotes in the diagram code."
	case CodeParse:
		return "Diagram parsing error: check the syntax and simplify the diagram."
	case CodeReference:
		return "Reference error: check for undefined elements or IDs in the diagram code."
	case CodeDuplicate:
		return "Duplicate definition: the same element or ID is defined multiple times."
	default:
		return "Diagram rendering failed: please check the diagram code."
	}
}

// Classify maps a raw engine error onto the stable error taxonomy by
// ordered, case-insensitive substring matching. Order matters: the engine's
// messages overlap ("Parse error" contains neither "failed to parse" nor
// "undefined", but "cannot read properties of undefined" contains
// "undefined"), so earlier rules must win.
func Classify(err error) *RenderError {
	msg := err.Error()
	lower := strings.ToLower(msg)

	code := CodeUnknown
	switch {
	case strings.Contains(lower, "no diagram type") ||
		strings.Contains(lower, "unknown diagram type"):
		code = CodeNoType
	case strings.Contains(lower, "lexical error") ||
		strings.Contains(lower, "parse error") ||
		strings.Contains(lower, "syntax error"):
		code = CodeSyntax
	case strings.Contains(lower, "cannot read properties of undefined") ||
		strings.Contains(lower, "failed to parse") ||
		strings.Contains(lower, "parseerror"):
		code = CodeParse
	case strings.Contains(lower, "not defined") ||
		strings.Contains(lower, "undefined"):
		code = CodeReference
	case strings.Contains(lower, "already") && strings.Contains(lower, "defined"):
		code = CodeDuplicate
	}

	return &RenderError{Code: code, Message: msg, Err: err}
}
