package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/formfill"
	"github.com/jonathan/job-tailor/internal/page"
)

// Message types understood by the /message endpoint. These mirror the
// request/response messages the extension's UI layer sends to its content
// script, so the popup can talk to either side with the same envelope.
const (
	MsgDetectJD      = "DETECT_JD"
	MsgFillForm      = "FILL_FORM"
	MsgGetFormFields = "GET_FORM_FIELDS"
	MsgPing          = "PING"
)

// Message is the request envelope: a type discriminator and an opaque
// payload.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MessageResponse is the response envelope. Exactly one of Data or Error is
// set, alongside the Success flag.
type MessageResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type detectPayload struct {
	HTML string `json:"html"`
	URL  string `json:"url,omitempty"`
}

type fillPayload struct {
	HTML    string           `json:"html"`
	Profile formfill.Profile `json:"profile"`
}

// handleMessage dispatches an extension message. Handler failures are
// reported inside the envelope with a 200 status; only a malformed envelope
// is an HTTP error.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid message: "+err.Error())
		return
	}

	var resp MessageResponse
	switch msg.Type {
	case MsgPing:
		resp = MessageResponse{Success: true, Data: "pong"}
	case MsgDetectJD:
		resp = s.messageDetect(r, msg.Data)
	case MsgGetFormFields:
		resp = s.messageFormFields(msg.Data)
	case MsgFillForm:
		resp = s.messageFill(msg.Data)
	default:
		resp = MessageResponse{Success: false, Error: "unknown message type: " + msg.Type}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) messageDetect(r *http.Request, data json.RawMessage) MessageResponse {
	var payload detectPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return MessageResponse{Success: false, Error: "invalid DETECT_JD payload: " + err.Error()}
	}
	if payload.HTML == "" {
		return MessageResponse{Success: false, Error: "DETECT_JD requires page html"}
	}

	p, err := page.New(payload.HTML, payload.URL)
	if err != nil {
		return MessageResponse{Success: false, Error: err.Error()}
	}

	detection, err := s.detectPage(r.Context(), p, fetch.DetectPlatform(payload.URL))
	if err != nil {
		return MessageResponse{Success: false, Error: err.Error()}
	}
	if detection == nil || detection.JD == "" {
		return MessageResponse{Success: false, Error: "no job description found on this page"}
	}
	return MessageResponse{Success: true, Data: detection}
}

func (s *Server) messageFormFields(data json.RawMessage) MessageResponse {
	var payload detectPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return MessageResponse{Success: false, Error: "invalid GET_FORM_FIELDS payload: " + err.Error()}
	}
	if payload.HTML == "" {
		return MessageResponse{Success: false, Error: "GET_FORM_FIELDS requires page html"}
	}

	p, err := page.New(payload.HTML, payload.URL)
	if err != nil {
		return MessageResponse{Success: false, Error: err.Error()}
	}
	return MessageResponse{Success: true, Data: p.FormFields()}
}

func (s *Server) messageFill(data json.RawMessage) MessageResponse {
	var payload fillPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return MessageResponse{Success: false, Error: "invalid FILL_FORM payload: " + err.Error()}
	}
	if payload.HTML == "" {
		return MessageResponse{Success: false, Error: "FILL_FORM requires page html"}
	}

	p, err := page.New(payload.HTML, "")
	if err != nil {
		return MessageResponse{Success: false, Error: err.Error()}
	}
	return MessageResponse{Success: true, Data: s.filler.BuildPlan(p.FormFields(), payload.Profile)}
}
