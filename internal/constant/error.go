package constant

import "fmt"

// Error carries a stable code alongside the message so handlers can map
// failures to the response envelope without string matching.
type Error interface {
	error
	Code() int
	Message() string
	WithData(data interface{}) Error
}

type codedError struct {
	code    int
	message string
	data    interface{}
}

func (e *codedError) Error() string {
	return fmt.Sprintf("code: %d, message: %s", e.code, e.message)
}

func (e *codedError) Code() int {
	return e.code
}

func (e *codedError) Message() string {
	return e.message
}

func (e *codedError) WithData(data interface{}) Error {
	e.data = data
	return e
}

// NewError creates an error from the code table.
func NewError(code int) Error {
	if msg, exists := ErrorMessages[code]; exists {
		return &codedError{code: code, message: msg}
	}
	return &codedError{code: code, message: "unknown error"}
}

// NewErrorf creates an error with a custom message under a known code.
func NewErrorf(code int, format string, args ...interface{}) Error {
	return &codedError{code: code, message: fmt.Sprintf(format, args...)}
}

// GetErrorMessage returns the table message for a code.
func GetErrorMessage(code int) (string, bool) {
	msg, exists := ErrorMessages[code]
	return msg, exists
}
