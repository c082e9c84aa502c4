package ports

import "context"

// Rate policy gating entry into the compute path.
type AdmissionPolicy interface {
	// Report whether a request may proceed now, consuming one slot if so.
	Allow() bool
	// Block until a slot is available or ctx is done.
	Wait(ctx context.Context) error
}
