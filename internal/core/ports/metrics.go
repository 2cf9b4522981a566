package ports

import "time"

// Metrics receives the outcome of core operations. The Prometheus
// implementation lives in internal/api/metrics; a nil Metrics passed to a
// service constructor disables recording.
type Metrics interface {
	// Registration records a registration attempt: created, conflict or error.
	Registration(result string)
	// Login records a login attempt: success, invalid_credentials or error.
	Login(result string)
	// PasswordOp records how long a hash or verify call took, queueing included.
	PasswordOp(op string, d time.Duration)
	// AddressMutation records add, add_default or delete.
	AddressMutation(op string)
	ProductCreated(currency string)
	// ProductCache records a cache lookup: hit, miss or error.
	ProductCache(result string)
}
