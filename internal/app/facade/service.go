// Package facade is the single entry point for business operations. It
// composes the storage backend, the relations manager and the security
// capabilities, and enforces every cross-entity rule before any write.
package facade

import (
	"sync"

	"github.com/staynest/listing_layer/internal/app/relations"
	"github.com/staynest/listing_layer/internal/app/storage"
	"github.com/staynest/listing_layer/internal/logging"
	"github.com/staynest/listing_layer/internal/security"
)

// Service exposes the application's operations. All mutating operations
// validate their full input before touching the store, so a failed call
// leaves no partial state behind.
type Service struct {
	store     storage.Store
	relations *relations.Manager
	hasher    security.Hasher
	log       *logging.Logger

	locks keyedMutex
}

// New creates the facade over the given backend.
func New(store storage.Store, hasher security.Hasher, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewDefault("facade")
	}
	return &Service{
		store:     store,
		relations: relations.NewManager(store, store, store),
		hasher:    hasher,
		log:       log,
	}
}

// Relations exposes the relationship manager for callers that need raw
// attach and detach semantics.
func (s *Service) Relations() *relations.Manager { return s.relations }

// keyedMutex serializes mutations per entity id so concurrent writers on
// the same record do not interleave read-modify-write cycles. Distinct
// ids proceed in parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
