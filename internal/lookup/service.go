package lookup

import (
	"context"
	"time"
)

// ProviderResolver resolves a validated key. *Resolver is the production
// implementation.
type ProviderResolver interface {
	Resolve(ctx context.Context, key Key) (*Record, *Failure)
}

// Observer receives one observation per completed lookup.
type Observer interface {
	ObserveLookup(outcome string, elapsed time.Duration)
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithObserver registers an Observer for lookup outcomes.
func WithObserver(o Observer) ServiceOption {
	return func(s *Service) {
		s.observer = o
	}
}

// Service runs the full pipeline: validate, resolve, wrap.
type Service struct {
	resolver ProviderResolver
	observer Observer
}

// NewService creates a lookup Service.
func NewService(resolver ProviderResolver, opts ...ServiceOption) *Service {
	s := &Service{resolver: resolver}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup validates raw and, only if it is a well-formed NPI, resolves it.
// The returned Envelope always carries either a Record or a Failure.
func (s *Service) Lookup(ctx context.Context, raw string) Envelope {
	start := time.Now()
	env := s.lookup(ctx, raw)
	if s.observer != nil {
		s.observer.ObserveLookup(env.Outcome(), time.Since(start))
	}
	return env
}

func (s *Service) lookup(ctx context.Context, raw string) Envelope {
	key, fail := Validate(raw)
	if fail != nil {
		return Envelope{Failure: fail}
	}

	rec, fail := s.resolver.Resolve(ctx, key)
	if fail != nil {
		return Envelope{Failure: fail}
	}
	if rec == nil {
		return Envelope{Failure: transportError(key)}
	}
	return Envelope{Record: rec}
}
