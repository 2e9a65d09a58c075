// Package message serves the scratch message board.
package message

import (
	"net/http"

	"github.com/tendant/simple-membership/internal/httputil"
	"github.com/tendant/simple-membership/pkg/message"
)

// Handler handles message endpoints.
type Handler struct {
	board *message.Board
}

// NewHandler creates a new message handler.
func NewHandler(board *message.Board) *Handler {
	return &Handler{board: board}
}

// MessageBody is the request and response body of the message endpoints.
type MessageBody struct {
	Message string `json:"message"`
}

// Get returns the current message.
// GET /v1/message
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, MessageBody{Message: h.board.Get()})
}

// Set replaces the current message.
// PUT /v1/message
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	var req MessageBody
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	h.board.Set(req.Message)
	w.WriteHeader(http.StatusNoContent)
}
