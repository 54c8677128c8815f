package buddy

import (
	"errors"
	"fmt"
)

// ErrUnterminatedAssistantBlock is reported when a document ends inside an
// assistant block that was opened but never closed.
var ErrUnterminatedAssistantBlock = errors.New("unterminated assistant block")

// MalformedDocumentError is returned by Parse when the document cannot be
// turned into a turn sequence. Line is the 1-based line that opened the
// offending block.
type MalformedDocumentError struct {
	Line int
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document: line %d: %v", e.Line, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}
