package soap

import (
	"errors"
	"fmt"
)

// Kind discriminates the two failure classes a call can produce.
type Kind int

const (
	// KindSOAPFault marks a Fault element found in the response body.
	KindSOAPFault Kind = iota + 1
	// KindHTTPStatus marks a response whose HTTP status is neither 200 nor 100.
	KindHTTPStatus
)

// Error is a failure reported by the remote service, either as a SOAP fault
// or as a bare HTTP status. Code holds the faultcode or the numeric status,
// Reason the faultstring or the status reason phrase.
type Error struct {
	Kind   Kind
	Code   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("service responded with %q (%s)", e.Reason, e.Code)
}

// AsError unwraps err into the service *Error carried inside it, if any.
func AsError(err error) (*Error, bool) {
	var svcErr *Error
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
