package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"travelbook/internal/reviews/service"
	apperrors "travelbook/pkg/errors"
	httputil "travelbook/pkg/http"
	"travelbook/pkg/logger"
	"travelbook/pkg/middleware"
	"travelbook/pkg/model"
)

type ReviewHandler struct {
	service service.ReviewService
	auth    *middleware.Auth
	log     *logger.Logger
}

func NewReviewHandler(service service.ReviewService, auth *middleware.Auth, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *ReviewHandler) ListByTour(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tourID := r.URL.Query().Get("tourId")
	if tourID == "" {
		h.writeError(w, "ListByTour", apperrors.InvalidInput("tourId query parameter is required"))
		return
	}

	reviews, err := h.service.ListByTour(r.Context(), tourID)
	if err != nil {
		h.writeError(w, "ListByTour", err)
		return
	}

	if err := httputil.WriteSuccess(w, reviews); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByTour", "error", err)
	}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, "Create", apperrors.Unauthorized("must be logged in to review"))
		return
	}

	var review model.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	review.UserID = claims.UserID

	if err := h.service.Create(r.Context(), &review); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, review); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, "Delete", apperrors.Unauthorized("must be logged in"))
		return
	}

	if err := h.service.Delete(r.Context(), claims.UserID, claims.Role, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReviewHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/reviews", h.ListByTour)
	router.POST("/api/reviews", h.auth.Required(h.Create))
	router.DELETE("/api/reviews/:id", h.auth.Required(h.Delete))
}
