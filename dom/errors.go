package dom

import (
	"errors"
	"fmt"
)

// Names of the exceptions the tree reports.
const (
	HierarchyRequestError = "HierarchyRequestError"
	NotFoundError         = "NotFoundError"
	InvalidCharacterError = "InvalidCharacterError"
	NotSupportedError     = "NotSupportedError"
	SyntaxError           = "SyntaxError"
)

// DOMError is a tree operation failure, named after the DOM exception it
// stands for. A DOMError with an empty message matches, under errors.Is,
// every DOMError of the same name.
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *DOMError) Is(target error) bool {
	t, ok := target.(*DOMError)
	return ok && t.Message == "" && t.Name == e.Name
}

// ErrorName returns the name of the first DOMError in err's chain, or "".
func ErrorName(err error) string {
	var de *DOMError
	if errors.As(err, &de) {
		return de.Name
	}
	return ""
}

func ErrHierarchyRequest(message string) *DOMError {
	return &DOMError{Name: HierarchyRequestError, Message: message}
}

func ErrNotFound(message string) *DOMError {
	return &DOMError{Name: NotFoundError, Message: message}
}

func ErrInvalidCharacter(message string) *DOMError {
	return &DOMError{Name: InvalidCharacterError, Message: message}
}

func ErrNotSupported(message string) *DOMError {
	return &DOMError{Name: NotSupportedError, Message: message}
}

// ErrSyntax is also what the native query primitive reports for a selector
// it cannot parse.
func ErrSyntax(message string) *DOMError {
	return &DOMError{Name: SyntaxError, Message: message}
}
