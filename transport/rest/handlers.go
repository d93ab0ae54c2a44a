package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-machine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-machine/internal/view"
)

type gameMachine interface {
	State() entity.GameState
	PublishEvent(event entity.GameEvent) entity.GameState
}

// EventRequest is the body of POST /events.
type EventRequest struct {
	Type entity.EventType `json:"type"`
	X    *int             `json:"x,omitempty"`
	Y    *int             `json:"y,omitempty"`
}

type StateResponse struct {
	State   entity.GameState `json:"state"`
	Display view.Display     `json:"display"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handlers struct {
	logger  *slog.Logger
	machine gameMachine
}

func NewHandlers(logger *slog.Logger, machine gameMachine) *Handlers {
	return &Handlers{
		logger:  logger.With("component", "rest"),
		machine: machine,
	}
}

// Routes - registers every endpoint on a fresh mux.
func (that *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("GET /state", that.getState)
	mux.HandleFunc("POST /events", that.postEvent)

	return mux
}

func (that *Handlers) getState(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, newStateResponse(that.machine.State()))
}

func (that *Handlers) postEvent(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "postEvent")

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode event", "error", err)
		that.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	event, err := entity.ParseEvent(req.Type, req.coordinate())
	if err != nil {
		log.Warn("rejected event", "type", req.Type, "error", err)
		that.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	state := that.machine.PublishEvent(event)

	that.writeJSON(w, http.StatusOK, newStateResponse(state))
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that EventRequest) coordinate() *entity.Coordinate {
	if that.X == nil || that.Y == nil {
		return nil
	}

	return &entity.Coordinate{X: *that.X, Y: *that.Y}
}

func newStateResponse(state entity.GameState) StateResponse {
	return StateResponse{
		State:   state,
		Display: view.FromState(state),
	}
}
