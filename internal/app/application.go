// Package app assembles the application: storage backend, security
// capabilities and the business facade, with their lifecycle managed in
// one place.
package app

import (
	"github.com/staynest/listing_layer/internal/app/facade"
	"github.com/staynest/listing_layer/internal/app/storage"
	"github.com/staynest/listing_layer/internal/app/storage/memory"
	"github.com/staynest/listing_layer/internal/logging"
	"github.com/staynest/listing_layer/internal/security"
)

// Options carries the injectable dependencies. Nil fields default to the
// in-memory store, the bcrypt hasher and a fresh logger, so tests and
// local runs need no configuration.
type Options struct {
	Store  storage.Store
	Hasher security.Hasher
	Log    *logging.Logger
}

// Application ties the facade and its dependencies together.
type Application struct {
	Facade *facade.Service
	Store  storage.Store

	log *logging.Logger
}

// New builds a fully initialised application.
func New(opts Options) *Application {
	if opts.Log == nil {
		opts.Log = logging.NewDefault("app")
	}
	if opts.Store == nil {
		opts.Store = memory.New()
	}
	if opts.Hasher == nil {
		opts.Hasher = security.NewBcryptHasher()
	}

	return &Application{
		Facade: facade.New(opts.Store, opts.Hasher, opts.Log),
		Store:  opts.Store,
		log:    opts.Log,
	}
}

// Log returns the application logger.
func (a *Application) Log() *logging.Logger { return a.log }
