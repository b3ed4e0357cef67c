package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/prodfile/pkg/client"
	"github.com/ssargent/prodfile/pkg/codec"
	"github.com/ssargent/prodfile/pkg/schema"
	"github.com/ssargent/prodfile/pkg/store"
)

const defaultJournalLimit = 100

// Server holds the API server state
type Server struct {
	store   ProductStore
	entry   *client.EntryClient
	search  *client.SearchClient
	journal JournalReader
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(deps Dependencies, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:   deps.Store,
		entry:   deps.Entry,
		search:  deps.Search,
		journal: deps.Journal,
		config:  config,
		metrics: metrics,
	}
}

// handleHealth reports that the server is up
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleAddProduct submits an AddRecord command built from the JSON body
func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordStoreOperation("append", false, time.Since(start))
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	res, err := s.entry.Submit(r.Context(), client.AddRecord{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Cost:        req.Cost.String(),
	})
	if err != nil {
		s.metrics.RecordStoreOperation("append", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}

	s.metrics.RecordStoreOperation("append", true, time.Since(start))
	sendCreated(w, res)
}

// handleGetProduct reads a single slot
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	slot, err := strconv.ParseInt(chi.URLParam(r, "slot"), 10, 64)
	if err != nil {
		s.metrics.RecordStoreOperation("read", false, time.Since(start))
		sendError(w, "Slot must be an integer", http.StatusBadRequest)
		return
	}

	record, err := s.store.ReadSlot(slot)
	if err != nil {
		if isDecodeError(err) {
			s.metrics.RecordCorruptSlots(1)
		}
		s.metrics.RecordStoreOperation("read", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}

	s.metrics.RecordStoreOperation("read", true, time.Since(start))
	sendSuccess(w, ProductResponse{Slot: slot, Record: record, Cost: codec.FormatCost(record.Cost)})
}

// handleListProducts searches by name when q is given and lists every slot otherwise
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if _, ok := r.URL.Query()["q"]; ok {
		res, err := s.search.Submit(r.Context(), client.SearchByName{Query: r.URL.Query().Get("q")})
		if err != nil {
			s.metrics.RecordStoreOperation("search", false, time.Since(start))
			sendError(w, err.Error(), statusFor(err))
			return
		}
		s.metrics.RecordCorruptSlots(len(res.Corrupt))
		s.metrics.RecordStoreOperation("search", true, time.Since(start))
		sendSuccess(w, res)
		return
	}

	products, corrupt, err := s.listAll(r.Context())
	if err != nil {
		s.metrics.RecordStoreOperation("scan", false, time.Since(start))
		sendError(w, err.Error(), statusFor(err))
		return
	}

	s.metrics.RecordCorruptSlots(len(corrupt))
	s.metrics.RecordStoreOperation("scan", true, time.Since(start))
	sendSuccess(w, map[string]interface{}{
		"products": products,
		"corrupt":  corrupt,
	})
}

// handleStats describes the data file
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats()
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}
	sendSuccess(w, stats)
}

// handleJournal lists journaled entries, oldest first
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		sendError(w, "Journal is disabled", http.StatusNotFound)
		return
	}

	limit := defaultJournalLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	entries, err := s.journal.List(limit)
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]interface{}{"entries": entries})
}

func (s *Server) listAll(ctx context.Context) ([]ProductResponse, []client.SlotFailure, error) {
	it, err := s.store.Scan()
	if err != nil {
		return nil, nil, err
	}
	defer it.Close()

	products := []ProductResponse{}
	corrupt := []client.SlotFailure{}
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		record, err := it.Record()
		if err != nil {
			corrupt = append(corrupt, client.SlotFailure{Slot: it.Slot(), Err: err.Error()})
			continue
		}
		products = append(products, ProductResponse{Slot: it.Slot(), Record: record, Cost: codec.FormatCost(record.Cost)})
	}
	return products, corrupt, it.Err()
}

func (s *Server) stats() (*StatsResponse, error) {
	slots, err := s.store.SlotCount()
	if err != nil {
		return nil, err
	}
	size, err := s.store.Size()
	if err != nil {
		return nil, err
	}
	return &StatsResponse{
		Path:       s.store.Path(),
		Slots:      slots,
		SizeBytes:  size,
		RecordSize: schema.RecordLen,
	}, nil
}

// startMetricsUpdater refreshes the store gauges until ctx is done
func (s *Server) startMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.updateStoreMetrics()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) updateStoreMetrics() {
	stats, err := s.stats()
	if err != nil {
		log.Printf("metrics: failed to read store stats: %v", err)
		return
	}
	s.metrics.UpdateStoreStats(stats.Slots, stats.SizeBytes)
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, client.ErrInvalidCost),
		errors.Is(err, client.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrOutOfRange):
		return http.StatusNotFound
	case isDecodeError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrStoreClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isDecodeError(err error) bool {
	var decErr *codec.DecodeError
	return errors.As(err, &decErr)
}
