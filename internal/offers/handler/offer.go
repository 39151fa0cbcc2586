package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"travelbook/internal/offers/service"
	apperrors "travelbook/pkg/errors"
	httputil "travelbook/pkg/http"
	"travelbook/pkg/logger"
	"travelbook/pkg/middleware"
	"travelbook/pkg/model"
)

type OfferHandler struct {
	service service.OfferService
	auth    *middleware.Auth
	log     *logger.Logger
}

func NewOfferHandler(service service.OfferService, auth *middleware.Auth, log *logger.Logger) *OfferHandler {
	return &OfferHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	query := &model.OfferQuery{
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	}

	offers, total, err := h.service.List(r.Context(), query)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, offers, total, query.Page, query.Limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *OfferHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	offer, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, offer); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var offer model.Offer
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &offer); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, offer); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.OfferUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	offer, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, offer); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *OfferHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *OfferHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/offers", h.List)
	router.GET("/api/offers/:id", h.GetByID)
	router.POST("/api/offers", h.auth.AdminOnly(h.Create))
	router.PUT("/api/offers/:id", h.auth.AdminOnly(h.Update))
	router.DELETE("/api/offers/:id", h.auth.AdminOnly(h.Delete))
}
