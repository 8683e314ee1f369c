/*
Package jamplate is the syntax tree construction engine of the jamplate
templating language.

Consists of subpackages:
  - source: immutable documents, text references and the dominance relation between them;
  - sketch: annotation payload attached to every syntax tree;
  - tree: syntax tree forest with conflict-checked insertion;
  - lexer: pattern compilation and span scanning;
  - parser: parser combinators, merge parsers and the fixpoint driver;
  - grammar: YAML grammar definitions and the default jamplate grammar;
  - lsp: language server publishing tree construction diagnostics;
  - cmd/jamplate: console utility.

Typical usage is:

1. Describe grammar either in Go code using parser combinators
or in YAML file loaded by grammar package.

2. Create a source.Source for the document text.

3. Run the fixpoint driver, which repeatedly discovers candidate spans
and grafts them into a single tree until nothing new is found.

4. Walk the finished tree or report an error pointing at the clashing spans.
*/
package jamplate

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	PatternErrors = 101 // used by lexer
	TreeErrors    = 201 // used by tree
	ParserErrors  = 301 // used by parser
	GrammarErrors = 401 // used by grammar
)

// Error is the error type used by jamplate subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos implements this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
