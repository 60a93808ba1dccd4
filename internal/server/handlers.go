package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rcliao/buyer-agent/internal/model"
	"github.com/rcliao/buyer-agent/internal/negotiation"
	"github.com/rcliao/buyer-agent/internal/price"
	"github.com/rcliao/buyer-agent/internal/session"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

type negotiateRequest struct {
	Product       string `json:"product"`
	Budget        int64  `json:"budget"`
	SellerMessage string `json:"seller_message"`
	SessionID     string `json:"session_id,omitempty"`
}

type negotiateResponse struct {
	SessionID string       `json:"session_id"`
	Round     int          `json:"round"`
	Response  model.Result `json:"response"`
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func budgetDetail(budget int64) string {
	if budget > price.Max {
		return fmt.Sprintf("Budget must be positive and at most %d", price.Max)
	}
	return "Budget must be positive"
}

func (s *Server) handleNegotiate(w http.ResponseWriter, r *http.Request) {
	var req negotiateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := negotiation.ValidateBudget(req.Budget); err != nil {
		writeProblem(w, r, http.StatusBadRequest, budgetDetail(req.Budget))
		return
	}

	resp, err := s.manager.Negotiate(r.Context(), session.Request{
		SessionID: strings.TrimSpace(req.SessionID),
		Product:   req.Product,
		Budget:    req.Budget,
		Message:   req.SellerMessage,
	})
	if err != nil {
		if errors.Is(err, negotiation.ErrInvalidBudget) {
			writeProblem(w, r, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "negotiate failed", "error", err)
		writeProblem(w, r, http.StatusInternalServerError, "negotiation failed")
		return
	}

	writeJSON(w, http.StatusOK, negotiateResponse{
		SessionID: resp.SessionID,
		Round:     resp.Round,
		Response:  resp.Result,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeProblem(w, r, http.StatusBadRequest, "session_id is required")
		return
	}

	if _, err := s.manager.Reset(r.Context(), req.SessionID); err != nil {
		s.logger.ErrorContext(r.Context(), "reset failed", "error", err)
		writeProblem(w, r, http.StatusInternalServerError, "reset failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	rec, err := s.manager.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, session.ErrNotFound) {
		writeProblem(w, r, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "get session failed", "error", err)
		writeProblem(w, r, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
