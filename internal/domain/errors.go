package domain

import (
	"errors"
	"strings"
)

// Error taxonomy shared by the solver and the dispatcher.
// Callers wrap these with context and match them with errors.Is.
var (
	// Malformed JSON or missing required fields.
	ErrDecode = errors.New("invalid request")
	// Checksum mismatch. The message is part of the wire contract.
	ErrIntegrity = errors.New("Hash verification failed")
	// Empty city set, duplicate or empty names, unusable coordinates.
	ErrInvalidInput = errors.New("invalid input")
	// Admission control refused the request.
	ErrRateLimited = errors.New("rate limit exceeded")
	// The per-request deadline expired before a result was produced.
	ErrTimeout = errors.New("request timed out")
)

// PublicMessage returns the client-facing text for err: the sentinel's
// message plus any detail attached after it, without internal op prefixes.
// Errors outside the taxonomy become "internal error".
func PublicMessage(err error) string {
	for _, s := range []error{ErrIntegrity, ErrRateLimited, ErrTimeout} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	for _, s := range []error{ErrDecode, ErrInvalidInput} {
		if !errors.Is(err, s) {
			continue
		}
		msg := err.Error()
		if i := strings.Index(msg, s.Error()); i >= 0 {
			return msg[i:]
		}
		return s.Error()
	}
	return "internal error"
}
