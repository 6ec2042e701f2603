package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"reel/internal/app"
	"reel/internal/mux"
	"reel/internal/orchestrator"
	"reel/internal/services"
)

const defaultJobLimit = 20

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := s.controller.Orchestrator().Snapshot()
	resp := StateResponse{
		Gate:         s.controller.State(),
		Orchestrator: string(snap.State),
		Codec:        s.controller.Codec().String(),
	}
	for _, codec := range s.controller.SupportedCodecs() {
		resp.Codecs = append(resp.Codecs, codec.String())
	}
	if snap.Current != nil {
		resp.CurrentJob = int64(snap.Current.ID)
		resp.CorrelationID = snap.Current.CorrelationID
	}
	if snap.HasLast {
		resp.LastResult = snap.Last.Description()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req CreateRequest
	if err := decodeOptional(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	future, err := s.controller.Create(app.Request{Images: req.Images, Audio: req.Audio})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	resp := CreateResponse{JobID: future.ID()}
	if !req.Wait {
		s.writeJSON(w, http.StatusAccepted, resp)
		return
	}

	outcome, err := future.Await(r.Context())
	if err != nil {
		// Client went away; the job keeps running.
		s.writeJSON(w, http.StatusAccepted, resp)
		return
	}
	resp.Completed = true
	resp.Succeeded = outcome.Succeeded()
	if outcome.Succeeded() {
		resp.Output = outcome.Output()
	} else {
		resp.Error = outcome.Description()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCodec(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req CodecRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	codec, ok := mux.ParseCodec(req.Codec)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "codec not supported")
		return
	}
	if err := s.controller.SelectCodec(codec); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, CodecRequest{Codec: s.controller.Codec().String()})
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	target, err := s.controller.Replay()
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PathResponse{Path: target})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	shared, err := s.controller.Share(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PathResponse{Path: shared})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := defaultJobLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	jobs, err := s.controller.History(r.Context(), limit)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	resp := JobListResponse{Jobs: make([]JobView, 0, len(jobs))}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, fromJob(job))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// writeFailure maps domain errors onto HTTP status codes.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, orchestrator.ErrAlreadyRunning),
		errors.Is(err, mux.ErrJobInProgress),
		errors.Is(err, app.ErrActionUnavailable):
		status = http.StatusConflict
	case errors.Is(err, orchestrator.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConfiguration):
		status = http.StatusServiceUnavailable
	}
	message := err.Error()
	if details := services.Details(err); details.Message != "" {
		message = details.Message
	}
	s.writeError(w, status, message)
}

// decodeOptional decodes a JSON body when one is present.
func decodeOptional(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
