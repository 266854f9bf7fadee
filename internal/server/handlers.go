package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/interview-coach/internal/answers"
	"github.com/jonathan/interview-coach/internal/session"
	"github.com/jonathan/interview-coach/internal/speech"
	"github.com/jonathan/interview-coach/internal/types"
)

type answerRequest struct {
	Text string `json:"text"`
}

type navigateRequest struct {
	Direction string `json:"direction"`
}

type captureRequest struct {
	Action string `json:"action"`
}

// updateRequest is one recognition result. Error carries a recognition failure instead of
// text.
type updateRequest struct {
	Text  string               `json:"text"`
	Final bool                 `json:"final"`
	Error *speech.CaptureError `json:"error,omitempty"`
}

type sayRequest struct {
	Text string `json:"text"`
}

// sessionResponse writes the snapshot of state.
func (s *Server) sessionResponse(w http.ResponseWriter, status int, state session.State) {
	s.jsonResponse(w, status, s.controller.Snapshot(state))
}

// respond writes the snapshot, or the error when err is set.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, state session.State, err error) {
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.sessionResponse(w, http.StatusOK, state)
}

// handleCreateSession captures the profile and generates the questions.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req types.ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	state, err := s.controller.Create(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.sessionResponse(w, http.StatusCreated, state)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.controller.Get(r.PathValue("id"))
	s.respond(w, r, state, err)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	state, err := s.controller.Restart(r.PathValue("id"))
	s.respond(w, r, state, err)
}

func (s *Server) handleCaptureProfile(w http.ResponseWriter, r *http.Request) {
	var req types.ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	state, err := s.controller.CaptureProfile(r.Context(), r.PathValue("id"), req)
	s.respond(w, r, state, err)
}

func (s *Server) handleRecordAnswer(w http.ResponseWriter, r *http.Request) {
	questionID, err := strconv.Atoi(r.PathValue("question_id"))
	if err != nil {
		s.errorResponse(w, r, &RequestError{Message: "question_id must be an integer"})
		return
	}
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	state, err := s.controller.RecordAnswer(r.PathValue("id"), questionID, req.Text)
	s.respond(w, r, state, err)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	direction, err := answers.ParseDirection(req.Direction)
	if err != nil {
		s.errorResponse(w, r, &RequestError{Message: err.Error()})
		return
	}

	state, err := s.controller.Navigate(r.PathValue("id"), direction)
	s.respond(w, r, state, err)
}

// handleSubmitAnswers finalizes the written answers and opens the live stage.
func (s *Server) handleSubmitAnswers(w http.ResponseWriter, r *http.Request) {
	state, err := s.controller.SubmitAnswers(r.Context(), r.PathValue("id"))
	s.respond(w, r, state, err)
}

func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	state, err := s.controller.StartInterview(r.PathValue("id"))
	s.respond(w, r, state, err)
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	action, err := session.ParseCaptureAction(req.Action)
	if err != nil {
		s.errorResponse(w, r, &RequestError{Message: err.Error()})
		return
	}

	state, err := s.controller.Capture(r.Context(), r.PathValue("id"), action)
	s.respond(w, r, state, err)
}

// handleUpdates accepts recognition results when the client is not using the WebSocket.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	state, err := s.controller.Observe(r.PathValue("id"), req.update())
	s.respond(w, r, state, err)
}

func (u updateRequest) update() speech.Update {
	return speech.Update{Text: u.Text, Final: u.Final, Err: u.Error}
}

func (s *Server) handleSay(w http.ResponseWriter, r *http.Request) {
	var req sayRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	state, err := s.controller.Say(r.Context(), r.PathValue("id"), req.Text)
	s.respond(w, r, state, err)
}

// handleEndInterview ends the interview and runs the assessment.
func (s *Server) handleEndInterview(w http.ResponseWriter, r *http.Request) {
	state, err := s.controller.EndInterview(r.Context(), r.PathValue("id"))
	s.respond(w, r, state, err)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	view, err := s.controller.Results(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}
