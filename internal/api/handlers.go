package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/itsmostafa/specindex/internal/logging"
	"github.com/itsmostafa/specindex/internal/output"
	"github.com/itsmostafa/specindex/internal/specindex"
	"github.com/itsmostafa/specindex/internal/version"
)

// parseRequest is the object form of a parse request. A bare JSON array of
// pages is accepted too.
type parseRequest struct {
	DocTitle string           `json:"doc_title"`
	Source   string           `json:"source"`
	Pages    []specindex.Page `json:"pages"`
}

type parseResponse struct {
	Metadata output.Metadata              `json:"metadata"`
	TOC      []specindex.TocEntry         `json:"toc"`
	Headings []specindex.HeadingCandidate `json:"headings,omitempty"`
	Sections []specindex.Section          `json:"sections"`
	Report   *specindex.ValidationReport  `json:"report"`
	Warnings []string                     `json:"warnings"`
}

type validateRequest struct {
	TOC      []specindex.TocEntry `json:"toc"`
	Sections []specindex.Section  `json:"sections"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":       version.Name,
		"version":    version.Version,
		"commit":     version.Commit,
		"build_date": version.BuildDate,
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var req parseRequest
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &req.Pages); err != nil {
			jsonError(w, "invalid pages: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else if err := json.Unmarshal(raw, &req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg := *s.config
	if req.DocTitle != "" {
		cfg.DocTitle = req.DocTitle
	}

	log := s.log.With(zap.String("request_id", middleware.GetReqID(r.Context())))
	result, err := specindex.NewProcessor(&cfg, logging.NewObserver(log)).Process(r.Context(), req.Pages)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, specindex.ErrNoPages) || errors.Is(err, specindex.ErrPageSequence) {
			status = http.StatusBadRequest
		}
		jsonError(w, err.Error(), status)
		return
	}

	resp := parseResponse{
		Metadata: output.NewMetadata(cfg.DocTitle, req.Source, len(req.Pages), result),
		TOC:      result.TOC,
		Sections: result.Sections,
		Report:   result.Report,
		Warnings: result.Warnings,
	}
	if r.URL.Query().Get("headings") == "true" {
		resp.Headings = result.Headings
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, specindex.NewValidator(s.config).Validate(req.TOC, req.Sections))
}

// handleCheck validates a JSON array of records against one output schema.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "schema")
	switch name {
	case output.SchemaTOC, output.SchemaSection, output.SchemaMetadata, output.SchemaValidation, "spec":
	default:
		jsonError(w, fmt.Sprintf("unknown schema %q", name), http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var records []json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		jsonError(w, "expected a JSON array of records: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.checker.CheckRecords(name, records))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
