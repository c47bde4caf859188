package services

import "fmt"

// InputError flags a problem with the uploaded file itself (unreadable,
// empty, missing required columns) as opposed to a server-side failure.
// Handlers map it to a client error.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string {
	return e.Msg
}

func inputErrorf(format string, args ...interface{}) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}
