package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/service"
	"github.com/aditya/worknearby/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// RegisterRoutes mounts the booking routes. All of them expect a session.
func (h *BookingHandler) RegisterRoutes(r chi.Router) {
	r.Post("/bookings", h.CreateBooking)
	r.Get("/bookings", h.ListMyBookings)
	r.Get("/bookings/{id}", h.GetBooking)
	r.Post("/bookings/{id}/advance", h.AdvanceBooking)
	r.Post("/bookings/{id}/cancel", h.CancelBooking)
	r.Post("/bookings/{id}/review", h.SubmitReview)
}

// POST /v1/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	// The booking belongs to the logged-in user. Name and phone default to the
	// profile but may be overridden for someone booking on another's behalf.
	profile := session.User.Snapshot()
	if req.Customer.Name == "" {
		req.Customer.Name = profile.Name
	}
	if req.Customer.Phone == "" {
		req.Customer.Phone = profile.Phone
	}
	req.Customer.UserID = profile.UserID

	booking, err := h.bookingService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, booking)
}

// GET /v1/bookings
func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	session, ok := currentSession(w, r)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListForCustomer(r.Context(), session.User.ID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// GET /v1/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, booking)
}

// POST /v1/bookings/{id}/advance
func (h *BookingHandler) AdvanceBooking(w http.ResponseWriter, r *http.Request) {
	var req models.AdvanceBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		handleError(w, err)
		return
	}

	booking, err := h.bookingService.Advance(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		handleError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, booking)
}

// POST /v1/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingService.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, booking)
}

// POST /v1/bookings/{id}/review
func (h *BookingHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingService.SubmitReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, booking)
}
