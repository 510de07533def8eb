// Package web provides an HTTP server for invoice validation.
//
// The server exposes a REST API for validating batches of extracted
// invoice records and inspecting the latest validation report. When
// started with a batch file it revalidates on every file change and
// notifies connected clients over Server-Sent Events.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/engine"
	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/loader"
	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/telemetry"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	WatchEnabled bool

	eng *engine.Engine
	ldr *loader.Loader

	mu     sync.RWMutex
	report *engine.Report

	// batchFile is the file passed to New. Empty when the server runs
	// API-only without a watched batch.
	batchFile string

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, eng *engine.Engine, batchFile string) *Server {
	return NewWithVersion(port, eng, batchFile, "", "")
}

func NewWithVersion(port int, eng *engine.Engine, batchFile, version, commitSHA string) *Server {
	return &Server{
		Port:      port,
		Host:      "127.0.0.1",
		Version:   version,
		CommitSHA: commitSHA,
		eng:       eng,
		ldr:       loader.New(),
		batchFile: batchFile,
	}
}

func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s:%d", s.Host, s.Port))
	defer timer.End()

	s.sseClients = make(map[chan string]struct{})

	if s.batchFile != "" {
		loadTimer := timer.Child(fmt.Sprintf("web.validate %s", s.batchFile))
		if err := s.revalidate(ctx); err != nil {
			loadTimer.End()
			return fmt.Errorf("failed to validate batch: %w", err)
		}
		loadTimer.End()

		if s.WatchEnabled {
			if err := s.startWatcher(ctx); err != nil {
				return fmt.Errorf("failed to start file watcher: %w", err)
			}
		}
	}

	setupTimer := timer.Child("web.setup_router")
	router := s.setupRouter()
	setupTimer.End()

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	return http.ListenAndServe(addr, router)
}

func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Get("/report", s.handleGetReport)
		r.Get("/rules", s.handleGetRules)
		r.Get("/events", s.handleSSE)
	})

	return r
}

// revalidate loads the watched batch file and replaces the stored report.
// Caller must NOT hold the mutex - this method acquires it internally.
func (s *Server) revalidate(ctx context.Context) error {
	records, err := s.ldr.Load(ctx, s.batchFile)
	if err != nil {
		return err
	}

	report, err := s.eng.Validate(ctx, records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	return nil
}

// latestReport returns the most recent report, or nil when no run has
// completed yet.
func (s *Server) latestReport() *engine.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// startWatcher starts a file watcher on the batch file. It revalidates
// and broadcasts SSE events when the file changes.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(s.batchFile); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.batchFile, err)
	}

	go s.runWatcher(ctx, watcher)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Debounce timer - editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// React to write/create/remove/rename events
			// (Remove/Rename are common in atomic saves)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx, watcher)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// handleFileChange revalidates the batch and notifies SSE clients.
func (s *Server) handleFileChange(ctx context.Context, watcher *fsnotify.Watcher) {
	if err := s.revalidate(ctx); err != nil {
		log.Printf("Failed to revalidate batch: %v", err)
		return
	}

	// Re-add the file, atomic saves replace the watched inode
	if err := watcher.Add(s.batchFile); err != nil {
		log.Printf("Warning: failed to watch %s: %v", s.batchFile, err)
	}

	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
		close(clientChan)
	}()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
