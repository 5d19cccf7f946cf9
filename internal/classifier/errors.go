// Package classifier scores ticket text for sentiment, churn risk, type,
// priority and security flags, either through a remote text-generation
// service or through a local keyword engine.
package classifier

import "errors"

var (
	// ErrServiceUnavailable reports a missing credential or a failed call.
	ErrServiceUnavailable = errors.New("classification service unavailable")
	// ErrInvalidResponse reports a reply that does not hold the expected JSON.
	ErrInvalidResponse = errors.New("invalid classification response")
)
