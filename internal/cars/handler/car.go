package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"travelbook/internal/cars/service"
	apperrors "travelbook/pkg/errors"
	httputil "travelbook/pkg/http"
	"travelbook/pkg/logger"
	"travelbook/pkg/middleware"
	"travelbook/pkg/model"
)

type CarHandler struct {
	service service.CarService
	auth    *middleware.Auth
	log     *logger.Logger
}

func NewCarHandler(service service.CarService, auth *middleware.Auth, log *logger.Logger) *CarHandler {
	return &CarHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *CarHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	seatCapacity, err := httputil.QueryInt(r, "seatCapacity")
	if err != nil {
		h.writeError(w, "List", apperrors.InvalidInput("invalid seatCapacity parameter"))
		return
	}

	query := &model.CarQuery{
		CarType:      r.URL.Query().Get("carType"),
		EngineType:   r.URL.Query().Get("engineType"),
		SeatCapacity: seatCapacity,
		Page:         page,
		Limit:        limit,
	}

	cars, total, err := h.service.List(r.Context(), query)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, cars, total, query.Page, query.Limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *CarHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	car, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, car); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var car model.Car
	if err := json.NewDecoder(r.Body).Decode(&car); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &car); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, car); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.CarUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	car, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, car); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CarHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *CarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/cars", h.List)
	router.GET("/api/cars/:id", h.GetByID)
	router.POST("/api/cars", h.auth.AdminOnly(h.Create))
	router.PUT("/api/cars/:id", h.auth.AdminOnly(h.Update))
	router.DELETE("/api/cars/:id", h.auth.AdminOnly(h.Delete))
}
