package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"meetnotes/internal/logging"
	"meetnotes/internal/services"
	"meetnotes/internal/summary"
)

const healthMessage = "Meeting Notes API is running"

type errorResponse struct {
	Detail string `json:"detail"`
}

type rootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type uploadResponse struct {
	Success    bool   `json:"success"`
	Transcript string `json:"transcript"`
	Filename   string `json:"filename"`
	Message    string `json:"message"`
}

type generateRequest struct {
	Transcript   string `json:"transcript"`
	CustomPrompt string `json:"custom_prompt"`
}

type generateResponse struct {
	Success   bool   `json:"success"`
	SummaryID string `json:"summary_id"`
	Summary   string `json:"summary"`
	Message   string `json:"message"`
}

type updateRequest struct {
	SummaryID      string `json:"summary_id"`
	UpdatedSummary string `json:"updated_summary"`
}

type updateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type getResponse struct {
	Success bool           `json:"success"`
	Summary summary.Record `json:"summary"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, rootResponse{Message: healthMessage, Status: "healthy"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Message: healthMessage})
}

func (s *Server) handleUploadTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "A transcript file is required")
		return
	}
	defer file.Close()

	// Read at most one byte past the ceiling so oversized uploads are
	// rejected without buffering the whole payload.
	data, err := io.ReadAll(io.LimitReader(file, s.intake.MaxBytes()+1))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Error processing file")
		return
	}

	text, err := s.intake.Process(header.Filename, data)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.logger.Info("transcript uploaded",
		logging.String("filename", header.Filename),
		logging.Int("bytes", len(data)))
	s.writeJSON(w, http.StatusOK, uploadResponse{
		Success:    true,
		Transcript: text,
		Filename:   header.Filename,
		Message:    "Transcript uploaded successfully",
	})
}

func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var req generateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, text, err := s.service.Generate(r.Context(), req.Transcript, req.CustomPrompt)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, generateResponse{
		Success:   true,
		SummaryID: id,
		Summary:   text,
		Message:   "Summary generated successfully",
	})
}

func (s *Server) handleUpdateSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		s.writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var req updateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.Update(req.SummaryID, req.UpdatedSummary); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, updateResponse{
		Success: true,
		Message: "Summary updated successfully",
	})
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/get-summary/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "Summary not found")
		return
	}

	record, err := s.service.Get(id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, getResponse{Success: true, Summary: record})
}

// writeDomainError translates a tagged service error into the wire-level
// status and detail message.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", logging.Error(err))
	}
	s.writeError(w, status, services.Detail(err))
}

func decodeJSONBody(r *http.Request, target any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(data, target)
}
