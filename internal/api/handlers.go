package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ignite/listkeeper/internal/pkg/httputil"
	"github.com/ignite/listkeeper/internal/service/subscriber"
)

// Handlers holds the subscriber service and translates its results into
// HTTP responses.
type Handlers struct {
	svc       *subscriber.Service
	startTime time.Time
}

// NewHandlers creates the handler set.
func NewHandlers(svc *subscriber.Service) *Handlers {
	return &Handlers{
		svc:       svc,
		startTime: time.Now(),
	}
}

// SubscribeRequest is the POST /subscribe body.
type SubscribeRequest struct {
	Email    string         `json:"email"`
	Metadata map[string]any `json:"metadata"`
}

// Subscribe registers a new subscriber.
//
//	POST /subscribe
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	_, err := h.svc.Register(r.Context(), req.Email, req.Metadata)
	switch {
	case errors.Is(err, subscriber.ErrInvalidEmail):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, subscriber.ErrDuplicate):
		httputil.Conflict(w, "email already exists")
	case err != nil:
		httputil.InternalError(w, err)
	default:
		httputil.Created(w, httputil.MessageResponse{Message: "subscriber added successfully"})
	}
}

// VerifyEmail redeems a verification token from the emailed link.
//
//	GET /verify/{token}
func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	err := h.svc.Verify(r.Context(), token)
	switch {
	case errors.Is(err, subscriber.ErrInvalidToken):
		httputil.BadRequest(w, "invalid verification token")
	case err != nil:
		httputil.InternalError(w, err)
	default:
		httputil.OK(w, httputil.MessageResponse{Message: "email verified successfully"})
	}
}

// SubscriberStats returns aggregate counts over the list.
//
//	GET /subscribers/stats
func (h *Handlers) SubscriberStats(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, h.svc.Stats(r.Context()))
}

// Health reports service status and basic list counts.
//
//	GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.svc.Stats(r.Context())
	httputil.OK(w, map[string]any{
		"status":      "healthy",
		"uptime":      time.Since(h.startTime).Round(time.Second).String(),
		"subscribers": stats.Total,
	})
}

// Liveness is a bare process-up probe.
//
//	GET /health/live
func (h *Handlers) Liveness(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{"status": "alive"})
}
