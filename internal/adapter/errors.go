package adapter

import "errors"

var (
	// ErrUnavailable is returned (or delivered in a Response) when the
	// backend cannot be reached at the transport level.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrBadResponse is returned when a reply does not match the expected
	// shape (missing fields, undecodable body, count mismatch).
	ErrBadResponse = errors.New("malformed backend response")

	// ErrUnauthorized is returned when the backend rejects the session
	// token.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrUnknownPayload is returned by Submit for payload types the
	// transport has no route for.
	ErrUnknownPayload = errors.New("unknown request payload type")
)
