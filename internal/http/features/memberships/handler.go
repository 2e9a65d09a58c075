// Package memberships serves the membership registry over HTTP.
package memberships

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-membership/internal/http/middleware"
	"github.com/tendant/simple-membership/internal/httputil"
	"github.com/tendant/simple-membership/pkg/domain"
	"github.com/tendant/simple-membership/pkg/membership"
)

// Handler handles membership endpoints.
type Handler struct {
	logger   *slog.Logger
	registry *membership.Registry
}

// NewHandler creates a new membership handler.
func NewHandler(logger *slog.Logger, registry *membership.Registry) *Handler {
	return &Handler{
		logger:   logger,
		registry: registry,
	}
}

// CreateRequest represents a membership creation request.
type CreateRequest = domain.MembershipPayload

// AddMemberRequest represents an add member request.
type AddMemberRequest struct {
	Member string `json:"member"`
}

// ExtendRequest represents an extend membership request.
type ExtendRequest struct {
	ExpirationDate string `json:"expiration_date"`
}

// BenefitsRequest represents a benefits replacement request.
type BenefitsRequest struct {
	Benefits []string `json:"benefits"`
}

// MessageResponse carries a single human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Initial returns the first page of memberships.
// GET /v1/memberships/initial
func (h *Handler) Initial(w http.ResponseWriter, r *http.Request) {
	list, err := h.registry.InitialMemberships(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, list)
}

// List returns a window of memberships in store order.
// GET /v1/memberships?offset=&limit=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	offset, ok := queryInt(r, "offset", 0)
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, ok := queryInt(r, "limit", membership.InitialLoadSize)
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "invalid limit")
		return
	}

	list, err := h.registry.LoadMoreMemberships(r.Context(), offset, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, list)
}

// ByStatus returns the memberships with the given status.
// GET /v1/memberships/status/{status}
func (h *Handler) ByStatus(w http.ResponseWriter, r *http.Request) {
	status := domain.MembershipStatus(chi.URLParam(r, "status"))

	list, err := h.registry.MembershipsByStatus(r.Context(), status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, list)
}

// ByCreator returns the memberships created by a principal.
// GET /v1/memberships/creator/{creator}
func (h *Handler) ByCreator(w http.ResponseWriter, r *http.Request) {
	creator, err := domain.ParsePrincipal(chi.URLParam(r, "creator"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid creator")
		return
	}

	list, err := h.registry.MembershipsByCreator(r.Context(), creator)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, list)
}

// Create creates a membership owned by the caller.
// POST /v1/memberships
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req CreateRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	m, err := h.registry.CreateMembership(r.Context(), caller, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, m)
}

// Get returns a membership owned by the caller.
// GET /v1/memberships/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	m, err := h.registry.GetMembership(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, m)
}

// AddMember appends a member to a membership.
// POST /v1/memberships/{id}/members
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req AddMemberRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	member, err := domain.ParsePrincipal(req.Member)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "member is required")
		return
	}

	m, err := h.registry.AddMember(r.Context(), caller, chi.URLParam(r, "id"), member)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, m)
}

// Extend replaces the expiration date of a membership.
// POST /v1/memberships/{id}/extend
func (h *Handler) Extend(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req ExtendRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	m, err := h.registry.ExtendMembership(r.Context(), caller, chi.URLParam(r, "id"), req.ExpirationDate)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, m)
}

// Deactivate marks a membership inactive.
// POST /v1/memberships/{id}/deactivate
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	m, err := h.registry.DeactivateMembership(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, m)
}

// UpdateBenefits replaces the benefits of a membership.
// PUT /v1/memberships/{id}/benefits
func (h *Handler) UpdateBenefits(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req BenefitsRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	m, err := h.registry.UpdateMembershipBenefits(r.Context(), caller, chi.URLParam(r, "id"), req.Benefits)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, m)
}

// ExpiryReminder reports whether a membership has lapsed.
// GET /v1/memberships/{id}/expiry-reminder
func (h *Handler) ExpiryReminder(w http.ResponseWriter, r *http.Request) {
	msg, err := h.registry.MembershipExpiryReminder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return domain.Principal{}, false
	}
	return caller, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrMembershipNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotExpiredOrInactive):
		httputil.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrCreationFailed):
		httputil.Error(w, http.StatusInternalServerError, domain.ErrCreationFailed.Error())
	default:
		h.logger.Error("membership request failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

// queryInt parses an integer query parameter, returning def when absent.
func queryInt(r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
