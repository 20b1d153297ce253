package machine

import (
	"fmt"
	"time"
)

// defaultMaxRetries is the number of additional attempts a state gets
// beyond the first when no explicit limit is configured.
const defaultMaxRetries = 3

// Metadata holds per-state configuration: display information plus the
// retry, timeout, and failover policy the engine applies when executing
// the state.
type Metadata struct {
	// Name is a display name for the state.
	Name string
	// Description briefly documents what the state does.
	Description string
	// MaxRetries is the number of additional attempts beyond the first.
	MaxRetries int
	// Timeout bounds a single attempt. Zero means unbounded.
	Timeout time.Duration
	// Failover is the state to jump to once retries are exhausted.
	// Empty means no failover.
	Failover string
}

// MetadataOption configures a Metadata value.
type MetadataOption func(*Metadata)

// WithDescription sets the state description.
func WithDescription(desc string) MetadataOption {
	return func(m *Metadata) {
		m.Description = desc
	}
}

// WithMaxRetries sets the number of additional attempts beyond the first.
func WithMaxRetries(n int) MetadataOption {
	return func(m *Metadata) {
		m.MaxRetries = n
	}
}

// WithTimeout bounds a single attempt. Zero means unbounded.
func WithTimeout(d time.Duration) MetadataOption {
	return func(m *Metadata) {
		m.Timeout = d
	}
}

// WithFailover sets the state to jump to once retries are exhausted.
func WithFailover(state string) MetadataOption {
	return func(m *Metadata) {
		m.Failover = state
	}
}

// NewMetadata creates state metadata with the given display name and
// options. Invalid values are rejected here, not at run time.
func NewMetadata(name string, opts ...MetadataOption) (Metadata, error) {
	md := Metadata{
		Name:       name,
		MaxRetries: defaultMaxRetries,
	}

	for _, opt := range opts {
		opt(&md)
	}

	err := md.validate()
	if err != nil {
		return Metadata{}, err
	}

	return md, nil
}

// MustMetadata is like NewMetadata but panics on invalid values. Intended
// for static definitions where the values are compile-time constants.
func MustMetadata(name string, opts ...MetadataOption) Metadata {
	md, err := NewMetadata(name, opts...)
	if err != nil {
		panic(err)
	}

	return md
}

func (m Metadata) validate() error {
	if m.MaxRetries < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxRetries, m.MaxRetries)
	}

	if m.Timeout < 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTimeout, m.Timeout)
	}

	return nil
}
