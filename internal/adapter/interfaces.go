// Package adapter implements the transport collaborator: it submits
// request payloads to the backend and delivers decoded responses
// asynchronously, keyed by request id. The engine never sees HTTP —
// it matches responses to requests by id and type-asserts the payload.
package adapter

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RequestID correlates a submitted request with its asynchronous response.
type RequestID string

// Response is one decoded backend reply. Exactly one of Payload or Err is
// meaningful. Responses may arrive in a different order than their
// requests were submitted.
type Response struct {
	ID      RequestID
	Payload any
	Err     error
}

// Transport is the submit/respond contract consumed by the sync engine.
type Transport interface {
	// Submit encodes and sends payload, returning immediately with the id
	// the eventual response will carry. The payload type selects the
	// backend operation.
	Submit(payload any) (RequestID, error)

	// Responses is the delivery channel for decoded replies.
	Responses() <-chan Response

	// Online reports whether the backend was reachable on the most recent
	// exchange. Checked before each download/upload batch is issued.
	Online() bool
}
