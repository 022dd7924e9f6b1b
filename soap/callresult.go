package soap

import (
	"net/http"
	"time"
)

// CallContent is one side of an exchange: the HTTP headers plus the body as
// it went over the wire.
type CallContent struct {
	Header http.Header
	Body   string
}

// CallResult traces a single call. Every call produces a fresh value, so the
// client itself carries no last-request/last-response state and can be shared
// between goroutines.
type CallResult struct {
	CallID          string
	Operation       string
	RequestURL      string
	StatusCode      int
	RequestContent  CallContent
	ResponseContent CallContent
	InvokeAt        time.Time
	ReturnAt        time.Time
	DecodedAt       time.Time
}
