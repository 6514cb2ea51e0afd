// Package mockfeed serves a quiz payload at the ORDS path so the fetch,
// retry and repair paths can be exercised without the real endpoint.
package mockfeed

import (
	"bytes"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// FeedPath is the path the real feed is served from.
const FeedPath = "/ords/imon/hero/question/"

//go:embed sample.json
var samplePayload []byte

// SamplePayload returns the built-in payload.
func SamplePayload() []byte {
	return bytes.Clone(samplePayload)
}

// Corruption selects how a payload is damaged before it is served.
type Corruption string

const (
	CorruptNone           Corruption = ""
	CorruptEmbeddedQuotes Corruption = "embedded-quotes"
	CorruptBOM            Corruption = "bom"
	CorruptTruncated      Corruption = "truncated"
)

// Corruptions lists the supported non-empty modes.
var Corruptions = []Corruption{CorruptEmbeddedQuotes, CorruptBOM, CorruptTruncated}

// ParseCorruption validates a mode name.
func ParseCorruption(s string) (Corruption, error) {
	if s == "" || s == "none" {
		return CorruptNone, nil
	}
	for _, c := range Corruptions {
		if string(c) == s {
			return c, nil
		}
	}
	return CorruptNone, fmt.Errorf("unknown corruption %q (want one of %v)", s, Corruptions)
}

// Corrupt returns a damaged copy of body.
func Corrupt(body []byte, mode Corruption) []byte {
	switch mode {
	case CorruptEmbeddedQuotes:
		// Drop the escaping the feed is known to forget.
		return bytes.ReplaceAll(body, []byte(`\"`), []byte(`"`))
	case CorruptBOM:
		out := append([]byte("\n  \uFEFF"), body...)
		return append(out, "\n\n"...)
	case CorruptTruncated:
		return bytes.Clone(body[:len(body)*7/10])
	}
	return bytes.Clone(body)
}

// Options configures a Server.
type Options struct {
	Payload    []byte
	Corruption Corruption
	// FailureRate is the fraction of requests answered with 503.
	FailureRate float64
	Latency     time.Duration
	Seed        uint64
}

// Server is the fixture feed.
type Server struct {
	opts   Options
	router *mux.Router

	mu   sync.Mutex
	rng  *rand.Rand
	hits int
}

// NewServer builds the router. An empty payload serves SamplePayload.
func NewServer(opts Options) *Server {
	if len(opts.Payload) == 0 {
		opts.Payload = SamplePayload()
	}
	s := &Server{
		opts: opts,
		rng:  rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc(FeedPath, s.serveFeed).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hits returns the number of feed requests served, failures included.
func (s *Server) Hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

func (s *Server) fail() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits++
	return s.opts.FailureRate > 0 && s.rng.Float64() < s.opts.FailureRate
}

// serveFeed honours ?corrupt=<mode> to override the configured mode.
func (s *Server) serveFeed(w http.ResponseWriter, r *http.Request) {
	if s.opts.Latency > 0 {
		select {
		case <-time.After(s.opts.Latency):
		case <-r.Context().Done():
			return
		}
	}

	if s.fail() {
		w.Header().Set("Retry-After", "1")
		http.Error(w, "service temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	mode := s.opts.Corruption
	if q := r.URL.Query().Get("corrupt"); q != "" {
		m, err := ParseCorruption(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mode = m
	}

	body := Corrupt(s.opts.Payload, mode)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Write(body)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Debug("fixture request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
