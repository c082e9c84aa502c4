package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestPublicMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"integrity", fmt.Errorf("verify: %w", ErrIntegrity), "Hash verification failed"},
		{"decode detail", fmt.Errorf("decode request: %w: missing data", ErrDecode), "invalid request: missing data"},
		{"invalid input detail", fmt.Errorf("solve: %w", fmt.Errorf("%w: duplicate city name %q", ErrInvalidInput, "A")), `invalid input: duplicate city name "A"`},
		{"timeout hides cause", fmt.Errorf("solve: %w after 3 moves: %v", ErrTimeout, context.DeadlineExceeded), "request timed out"},
		{"rate limited", fmt.Errorf("admit: %w", ErrRateLimited), "rate limit exceeded"},
		{"unknown", errors.New("disk on fire"), "internal error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PublicMessage(tc.err); got != tc.want {
				t.Fatalf("PublicMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}
