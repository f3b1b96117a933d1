// Package server exposes the flyer ingestion pipeline to the operator over
// three local routes: the review UI, /analyze and /submit.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"scj_seminar_admin/extractor"
	"scj_seminar_admin/parser"
	"scj_seminar_admin/publisher"
)

//go:embed web/index.html
var indexHTML []byte

const maxUploadBytes = 32 << 20

// deployClient caps how long a hung webhook can delay the submit response.
var deployClient = &http.Client{Timeout: 10 * time.Second}

// Server holds the pipeline components. It is stateless across requests;
// only startup configuration is shared.
type Server struct {
	extract   extractor.Extractor
	fields    parser.FieldParser
	pub       *publisher.Publisher
	deployURL string
	logger    *log.Logger
}

func New(ex extractor.Extractor, fp parser.FieldParser, pub *publisher.Publisher, deployURL string, logger *log.Logger) (*Server, error) {
	if ex == nil {
		return nil, errors.New("extractor required")
	}
	if fp == nil {
		return nil, errors.New("field parser required")
	}
	if pub == nil {
		return nil, errors.New("publisher required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{extract: ex, fields: fp, pub: pub, deployURL: deployURL, logger: logger}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/submit", s.handleSubmit)
	return s.logMiddleware(corsMiddleware(mux))
}

// --- Handlers ---

type analyzeResp struct {
	OK      bool                `json:"ok"`
	Parsed  parser.ParsedFields `json:"parsed"`
	RawText string              `json:"rawText"`
}

type submitResp struct {
	OK      bool   `json:"ok"`
	EntryID string `json:"entryId"`
}

type errorResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, err)
		return
	}
	file, _, err := r.FormFile("pdf")
	if err != nil {
		writeError(w, errors.New("PDFファイルが見つかりません"))
		return
	}
	defer file.Close()

	// The flyer is request-scoped: read fully, extracted, then discarded.
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, err)
		return
	}
	text, err := s.extract.Extract(data)
	if err != nil {
		writeError(w, err)
		return
	}
	parsed, err := s.fields.Parse(r.Context(), text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, analyzeResp{OK: true, Parsed: parsed, RawText: text})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var sub publisher.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, err)
		return
	}

	entryID, err := s.pub.PublishEntry(r.Context(), sub)
	if err != nil {
		writeError(w, err)
		return
	}

	// Best effort; a failed hook only logs.
	publisher.TriggerDeploy(context.WithoutCancel(r.Context()), deployClient, s.deployURL, s.logger)

	writeJSON(w, submitResp{OK: true, EntryID: entryID})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

// writeError surfaces the component failure verbatim; every pipeline error
// is terminal for the current request.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(errorResp{OK: false, Error: err.Error()})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}
