package main

import (
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"sync"

	"github.com/fastdb-io/fastdb"
	"github.com/fastdb-io/fastdb/catalog"
	"github.com/fastdb-io/fastdb/storage"
)

// Server owns the catalog store and the data directory, listens for client
// connections and runs one Session per connection. The accept loop only
// hands connections off; all session work happens in per-connection
// goroutines.
type Server struct {
	cfg      fastdb.Config
	logger   *slog.Logger
	catalog  *catalog.Store
	store    *storage.Manager
	listener net.Listener
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewServer opens the data directory and the catalog.
func NewServer(cfg fastdb.Config, logger *slog.Logger) (*Server, error) {
	store, err := storage.NewManager(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Open(filepath.Join(cfg.DataDir, cfg.CatalogFile), cfg.DigestAlgo)
	if err != nil {
		return nil, err
	}

	// Backing stores with no catalog row are reported, not adopted. The
	// catalog's own file lives in the data directory and is skipped.
	names, err := store.List()
	if err != nil {
		logger.Warn("data directory scan failed", "err", err)
	} else {
		for _, name := range names {
			if name+fastdb.DatabaseExt == cfg.CatalogFile {
				continue
			}
			if !cat.DatabaseExists(name) {
				logger.Warn("orphaned backing store", "db", name)
			}
		}
	}

	return &Server{
		cfg:     cfg,
		logger:  logger,
		catalog: cat,
		store:   store,
		done:    make(chan struct{}),
	}, nil
}

// Catalog exposes the shared catalog store, mainly for bootstrap (seeding
// the first user) and tests.
func (s *Server) Catalog() *catalog.Store {
	return s.catalog
}

// Start begins listening on addr.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	s.logger.Info("server listening", "addr", listener.Addr().String())

	go s.acceptLoop()
	return nil
}

// Stop closes the listener, waits for every session to finish and closes
// the catalog.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return s.catalog.Close()
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				s.logger.Error("accept error", "err", err)
				continue
			}
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			newSession(conn, s.catalog, s.store, s.logger).run()
		}()
	}
}
