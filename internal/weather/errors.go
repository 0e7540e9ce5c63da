package weather

import "errors"

// Failure kinds of a capture run. Every error returned by the fetcher,
// publisher and service wraps exactly one of these.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrTransport      = errors.New("transport error")
	ErrResponseFormat = errors.New("response format error")
	ErrStorage        = errors.New("storage error")
)
