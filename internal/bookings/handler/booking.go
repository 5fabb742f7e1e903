package handler

import (
	"encoding/json"
	"net/http"

	"parkslot/internal/bookings/service"
	"parkslot/internal/bookings/validator"
	apperrors "parkslot/pkg/errors"
	httputil "parkslot/pkg/http"
	"parkslot/pkg/logger"
	"parkslot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingsResponse struct {
	Bookings []model.Booking `json:"bookings"`
}

type BookingResponse struct {
	Booking model.Booking `json:"booking"`
}

type AvailabilityResponse struct {
	Date   string `json:"date"`
	Booked bool   `json:"booked"`
}

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}
	if err := httputil.WriteJSON(w, http.StatusOK, BookingsResponse{Bookings: bookings}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusCreated, BookingResponse{Booking: *booking}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if !deleted {
		h.writeError(w, "Delete", apperrors.NotFoundWithID("Booking", id))
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Booking cancelled successfully"); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Delete", "error", err)
	}
}

// Availability is the pre-flight conflict check: clients can ask whether a
// date is taken before submitting the booking form.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")
	if !validator.ValidDate(date) {
		h.writeError(w, "Availability", apperrors.Validation("Invalid date format. Use YYYY-MM-DD"))
		return
	}

	booked, err := h.service.IsDateBooked(r.Context(), date)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, AvailabilityResponse{Date: date, Booked: booked}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Availability", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/bookings", h.List)
	router.POST("/bookings", h.Create)
	router.DELETE("/bookings/:id", h.Delete)
	router.GET("/bookings/availability", h.Availability)
}
