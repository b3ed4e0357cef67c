// Package di provides dependency injection container
package di

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ssargent/prodfile/pkg/api" //nolint:depguard
	"github.com/ssargent/prodfile/pkg/client"
	"github.com/ssargent/prodfile/pkg/config"
	"github.com/ssargent/prodfile/pkg/journal"
	"github.com/ssargent/prodfile/pkg/store"
)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory: api.NewServerFactory(),
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// Runtime is an opened store together with the clients that talk to it
type Runtime struct {
	Store   *store.SlotStore
	Journal *journal.Journal // nil when the journal is disabled
	Entry   *client.EntryClient
	Search  *client.SearchClient
}

// Open opens the data file and, when enabled, the journal described by cfg.
// A relative journal dir is resolved next to the data file.
func (c *Container) Open(cfg *config.Config) (*Runtime, error) {
	s, err := store.OpenWithConfig(store.SlotStoreConfig{
		FilePath:   cfg.DataFile,
		SyncWrites: cfg.SyncWrites,
	})
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Store: s, Search: client.NewSearchClient(s)}

	var recorder client.Recorder
	if cfg.Journal.Enabled {
		dir := cfg.Journal.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(cfg.DataFile), dir)
		}
		j, err := journal.Open(dir)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		rt.Journal = j
		recorder = j
	}
	rt.Entry = client.NewEntryClient(s, recorder)

	return rt, nil
}

// Dependencies returns the collaborators for the HTTP server
func (rt *Runtime) Dependencies() api.Dependencies {
	deps := api.Dependencies{
		Store:  rt.Store,
		Entry:  rt.Entry,
		Search: rt.Search,
	}
	if rt.Journal != nil {
		deps.Journal = rt.Journal
	}
	return deps
}

// Close releases the journal and the store
func (rt *Runtime) Close() error {
	var errs []error
	if rt.Journal != nil {
		errs = append(errs, rt.Journal.Close())
	}
	errs = append(errs, rt.Store.Close())
	return errors.Join(errs...)
}
