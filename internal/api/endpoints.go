package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/instrument-core/internal/binding"
)

// EndpointList is the response of GET /api/v1/endpoints.
type EndpointList struct {
	Endpoints []binding.Reading `json:"endpoints"`
	Count     int               `json:"count"`
	// Version counts snapshot captures; zero means the runtime has not ticked.
	Version uint64 `json:"version"`
}

// EndpointDetail is the response of GET /api/v1/endpoints/{address}.
type EndpointDetail struct {
	binding.Reading
	Description string `json:"description,omitempty"`
	Writable    bool   `json:"writable"`
}

// SetRequest is the body of PUT /api/v1/endpoints/{address}. Value may be a
// JSON string or any other JSON literal, which is passed on as its text.
// Bangs take no value and may be sent with an empty body.
type SetRequest struct {
	Value json.RawMessage `json:"value"`
}

// SetResponse acknowledges a queued write.
type SetResponse struct {
	Address string `json:"address"`
	Status  string `json:"status"`
}

// handleListEndpoints returns the last captured reading of every endpoint,
// optionally filtered by an address prefix.
func (s *Server) handleListEndpoints(w http.ResponseWriter, r *http.Request) {
	snap := s.bridge.exchange.Snapshot()
	prefix := r.URL.Query().Get("prefix")

	var readings []binding.Reading
	if prefix == "" {
		readings = snap.All()
	} else {
		// Whole segments only, as /list does; a leading "/" is optional.
		matched := s.table.Match(prefix)
		if len(matched) == 0 {
			matched = s.table.Match(strings.TrimPrefix(prefix, "/"))
		}
		readings = make([]binding.Reading, 0, len(matched))
		for _, en := range matched {
			if rd, ok := snap.Get(en.Address); ok {
				readings = append(readings, rd)
			}
		}
	}

	writeJSON(w, http.StatusOK, EndpointList{
		Endpoints: readings,
		Count:     len(readings),
		Version:   snap.Version(),
	})
}

// handleGetEndpoint returns one endpoint's last captured reading.
func (s *Server) handleGetEndpoint(w http.ResponseWriter, r *http.Request) {
	addr := chi.URLParam(r, "*")
	full, e, ok := s.resolve(addr)
	if !ok {
		writeNotFound(w, "unknown endpoint: "+addr)
		return
	}

	reading, ok := s.bridge.exchange.Snapshot().Get(full)
	if !ok {
		writeUnavailable(w, "endpoint not captured yet")
		return
	}

	writeJSON(w, http.StatusOK, EndpointDetail{
		Reading:     reading,
		Description: e.Description,
		Writable:    binding.Writable(e) == nil,
	})
}

// handleSetEndpoint queues a write for the next tick.
func (s *Server) handleSetEndpoint(w http.ResponseWriter, r *http.Request) {
	var req SetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	value, err := valueText(req.Value)
	if err != nil {
		writeBadRequest(w, "invalid value")
		return
	}

	addr := chi.URLParam(r, "*")
	full, err := s.setEndpoint(addr, value, bridgeName)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, SetResponse{Address: full, Status: "queued"})
	case errors.Is(err, ErrUnknownAddress):
		writeNotFound(w, "unknown endpoint: "+addr)
	case errors.Is(err, binding.ErrReadOnly), errors.Is(err, binding.ErrNotSettable):
		writeError(w, http.StatusConflict, ErrCodeReadOnly, err.Error())
	case errors.Is(err, binding.ErrMailboxFull):
		writeUnavailable(w, "write queue full")
	default:
		s.logger.Error("queueing endpoint write failed", "address", addr, "error", err)
		writeInternalError(w, "failed to queue write")
	}
}

// valueText converts a JSON value to the text form endpoints parse.
// Strings are unquoted; other literals are passed through verbatim.
func valueText(raw json.RawMessage) (string, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return "", nil
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return text, nil
}
