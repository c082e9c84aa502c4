package ports

import "tour-solver-service/internal/domain"

// Port: a bounded store of solve results keyed by request fingerprint.
type ResultCache interface {
	// Return the cached result for fingerprint, if any.
	Get(fingerprint string) (*domain.SolveResult, bool)
	// Store result under fingerprint. Existing entries are left untouched.
	Put(fingerprint string, result *domain.SolveResult)
	Len() int
}
