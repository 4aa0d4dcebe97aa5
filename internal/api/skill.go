package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/color-magic/internal/alexa"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// maxRequestBytes bounds the size of a skill request body.
const maxRequestBytes = 1 << 20

// Dispatcher turns a request envelope into a response envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, env *alexa.RequestEnvelope) (*alexa.ResponseEnvelope, error)
}

// SkillHandler serves the skill endpoint the voice platform posts to.
type SkillHandler struct {
	dispatcher Dispatcher
	timeout    time.Duration
}

// NewSkillHandler creates a skill handler. A zero timeout disables the
// per-request deadline.
func NewSkillHandler(dispatcher Dispatcher, timeout time.Duration) *SkillHandler {
	return &SkillHandler{dispatcher: dispatcher, timeout: timeout}
}

// RegisterRoutes registers the skill endpoint.
func (h *SkillHandler) RegisterRoutes(r chi.Router) {
	r.Post("/alexa", h.ServeSkill)
}

// ServeSkill decodes one request envelope, dispatches it and writes the
// response envelope.
func (h *SkillHandler) ServeSkill(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var env alexa.RequestEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "request too large")
			return
		}
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if env.Request.Type == "" {
		Error(w, http.StatusBadRequest, "missing request type")
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	resp, err := h.dispatcher.Dispatch(ctx, &env)
	if err != nil {
		slog.Error("Skill request failed",
			"request_id", chiMiddleware.GetReqID(r.Context()),
			"request_type", env.Request.Type,
			"error", err)
		Error(w, http.StatusInternalServerError, "skill request failed")
		return
	}

	JSON(w, http.StatusOK, resp)
}
