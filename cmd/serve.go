package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/phrasekit/analysis"
	"github.com/jsphweid/phrasekit/compose"
	"github.com/jsphweid/phrasekit/config"
	"github.com/jsphweid/phrasekit/errs"
	"github.com/jsphweid/phrasekit/logger"
	"github.com/jsphweid/phrasekit/model"
	"github.com/jsphweid/phrasekit/util"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the clip library over HTTP",
	Long:  `Serves analysis of the clip library under --root and accepts export/pack requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := ":" + cfg.Port
		logger.Info("Listening", logger.Fields{"addr": addr, "root": cfg.Root, "dest": cfg.Dest})
		return http.ListenAndServe(addr, NewRouter(cfg))
	},
}

type ctxKey int

const requestIDKey ctxKey = 0

type server struct {
	cfg      *config.Config
	composer *compose.Composer
}

// NewRouter builds the HTTP API. Engine calls hold no shared state so
// handlers need no locking.
func NewRouter(cfg *config.Config) http.Handler {
	s := &server{cfg: cfg, composer: compose.New(cfg)}

	router := mux.NewRouter().StrictSlash(true)
	router.Use(withRequestID)
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/files", s.handleFiles).Methods("GET")
	api.HandleFunc("/analyze", s.handleAnalyze).Methods("GET")
	api.HandleFunc("/raw", s.handleRaw).Methods("GET")
	api.HandleFunc("/copy", s.handleCopy).Methods("POST")
	api.HandleFunc("/pack", s.handlePack).Methods("POST")
	return cors.Default().Handler(router)
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		fields := logger.WithRequest(r, id)
		fields["duration_ms"] = time.Since(start).Milliseconds()
		logger.Info("API request completed", fields)
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

func respond(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, logger.WithRequest(r, requestID(r)))
	}
	respond(w, status, model.ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidSpec), errors.Is(err, errs.ErrOutsideRoot):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrSourceNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *server) handleFiles(w http.ResponseWriter, r *http.Request) {
	records, err := libraryRecords(s.cfg.Root, s.cfg.Dest)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	respond(w, http.StatusOK, model.FilesResponse{Root: s.cfg.Root, Count: len(records), Files: records})
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("file")
	if rel == "" {
		respondError(w, r, http.StatusBadRequest, errors.New("missing file parameter"))
		return
	}
	path, err := util.ResolveUnder(s.cfg.Root, rel)
	if err != nil {
		respondError(w, r, statusFor(err), err)
		return
	}
	clip, err := analysis.Load(path)
	if errors.Is(err, errs.ErrSourceNotFound) {
		respondError(w, r, http.StatusNotFound, err)
		return
	}
	rec := model.AnalysisRecord{Filename: filepath.ToSlash(rel)}
	if err != nil {
		rec.Error = err.Error()
	} else {
		rec = clip.Record
		rec.Filename = filepath.ToSlash(rel)
	}
	respond(w, http.StatusOK, rec)
}

// handleRaw streams a library clip unchanged for in-browser playback.
func (s *server) handleRaw(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("file")
	if rel == "" {
		respondError(w, r, http.StatusBadRequest, errors.New("missing file parameter"))
		return
	}
	path, err := util.ResolveUnder(s.cfg.Root, rel)
	if err != nil {
		respondError(w, r, statusFor(err), err)
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() || !util.IsMidiPath(path) {
		respondError(w, r, http.StatusNotFound, fmt.Errorf("%v: %w", rel, errs.ErrSourceNotFound))
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	http.ServeFile(w, r, path)
}

func (s *server) transform(w http.ResponseWriter, r *http.Request, merge bool) {
	var req model.TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}
	req.Merge = merge

	res, err := s.composer.Run(req)
	if err != nil {
		respondError(w, r, statusFor(err), err)
		return
	}
	dest := s.cfg.Dest
	if rel, err := filepath.Rel(s.cfg.Root, dest); err == nil {
		dest = filepath.ToSlash(rel)
	}
	respond(w, http.StatusOK, model.BatchResponse{BatchResult: res, Dest: dest, Merged: merge})
}

func (s *server) handleCopy(w http.ResponseWriter, r *http.Request) {
	s.transform(w, r, false)
}

func (s *server) handlePack(w http.ResponseWriter, r *http.Request) {
	s.transform(w, r, true)
}
