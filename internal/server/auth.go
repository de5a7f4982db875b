package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// PairRequest is the request body for POST /pair: the one-time pairing code
// the user copied from `jobtailor token`.
type PairRequest struct {
	Code string `json:"code"`
}

// PairResponse carries the minted pairing token.
type PairResponse struct {
	Token    string `json:"token"`
	DeviceID string `json:"deviceId"`
}

// handlePair exchanges a pairing code for a bearer token. When auth is
// disabled (no JWT_SECRET) pairing is a no-op so the extension's pairing
// flow still completes.
func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	if s.jwtService == nil {
		s.jsonResponse(w, http.StatusOK, PairResponse{Token: "", DeviceID: uuid.New().String()})
		return
	}

	var req PairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if s.pairingHash == "" || req.Code == "" || !s.pairing.VerifyCode(req.Code, s.pairingHash) {
		err := &ErrInvalidPairingCode{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	deviceID := uuid.New()
	token, err := s.jwtService.GenerateToken(deviceID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, PairResponse{Token: token, DeviceID: deviceID.String()})
}
