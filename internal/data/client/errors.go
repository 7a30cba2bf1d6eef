package client

import "errors"

var (
	// ErrNetwork marks transport failures and non-success responses
	ErrNetwork = errors.New("network error")
	// ErrParse marks responses whose body could not be decoded
	ErrParse = errors.New("parse error")
	// ErrMissingStation is returned when the server rejects a request without a station
	ErrMissingStation = errors.New("station name missing")
	// ErrNotFound is returned when the server has no data for the request
	ErrNotFound = errors.New("not found")
)
