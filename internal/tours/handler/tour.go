package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"travelbook/internal/tours/service"
	apperrors "travelbook/pkg/errors"
	httputil "travelbook/pkg/http"
	"travelbook/pkg/logger"
	"travelbook/pkg/middleware"
	"travelbook/pkg/model"
)

type TourHandler struct {
	service service.TourService
	auth    *middleware.Auth
	log     *logger.Logger
}

func NewTourHandler(service service.TourService, auth *middleware.Auth, log *logger.Logger) *TourHandler {
	return &TourHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *TourHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	maxPrice, err := httputil.QueryInt64(r, "maxPrice")
	if err != nil {
		h.writeError(w, "List", apperrors.InvalidInput("invalid maxPrice parameter"))
		return
	}

	query := &model.TourQuery{
		Search:   r.URL.Query().Get("search"),
		Type:     r.URL.Query().Get("type"),
		MaxPrice: maxPrice,
		SortBy:   r.URL.Query().Get("sortBy"),
		Page:     page,
		Limit:    limit,
	}

	tours, total, err := h.service.List(r.Context(), query)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, tours, total, query.Page, query.Limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *TourHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tour, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, tour); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *TourHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var tour model.Tour
	if err := json.NewDecoder(r.Body).Decode(&tour); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &tour); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, tour); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *TourHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.TourUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	tour, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, tour); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *TourHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *TourHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *TourHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/tours", h.List)
	router.GET("/api/tours/:id", h.GetByID)
	router.POST("/api/tours", h.auth.AdminOnly(h.Create))
	router.PUT("/api/tours/:id", h.auth.AdminOnly(h.Update))
	router.DELETE("/api/tours/:id", h.auth.AdminOnly(h.Delete))
}
