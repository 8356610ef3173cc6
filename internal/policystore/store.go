// Package policystore loads policy collections from disk and serves an
// immutable snapshot to evaluators, with optional hot reload on file
// change.
package policystore

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/vyrodovalexey/aviam/internal/iam/awsiam"
	"github.com/vyrodovalexey/aviam/internal/observability"
)

// Store holds the currently loaded policy collection. Readers always
// see a complete collection; reloads swap the snapshot atomically and
// never leave a half-applied state.
type Store struct {
	path     string
	logger   observability.Logger
	snapshot atomic.Pointer[awsiam.Collection]
}

// StoreOption is a functional option for configuring the store.
type StoreOption func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger observability.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a store backed by the given policy file. The file is
// not read until Load is called.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		path:   path,
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	empty := awsiam.Collection{}
	s.snapshot.Store(&empty)

	return s
}

// Load reads, decodes, and validates the policy file, then swaps it in
// as the current snapshot. On any error the previous snapshot stays in
// effect.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read policy file: %w", err)
	}

	collection, err := awsiam.DecodePolicies(data)
	if err != nil {
		return fmt.Errorf("decode policy file %s: %w", s.path, err)
	}

	if err := awsiam.ValidateCollection(collection); err != nil {
		return fmt.Errorf("validate policy file %s: %w", s.path, err)
	}

	s.snapshot.Store(&collection)

	s.logger.Info("policies loaded",
		observability.String("path", s.path),
		observability.Int("policies", len(collection)),
	)

	return nil
}

// Collection returns the current policy snapshot.
func (s *Store) Collection() awsiam.Collection {
	return *s.snapshot.Load()
}

// Path returns the backing policy file path.
func (s *Store) Path() string {
	return s.path
}
