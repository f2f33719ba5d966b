package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/service"
	"github.com/aditya/worknearby/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type WorkerHandler struct {
	workerService  service.WorkerService
	bookingService service.BookingService
}

func NewWorkerHandler(workerService service.WorkerService, bookingService service.BookingService) *WorkerHandler {
	return &WorkerHandler{
		workerService:  workerService,
		bookingService: bookingService,
	}
}

func (h *WorkerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/workers", h.ListWorkers)
	r.Get("/workers/{id}", h.GetWorker)
}

func (h *WorkerHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/workers", h.RegisterWorker)
	r.Patch("/workers/{id}", h.UpdateWorker)
	r.Get("/workers/{id}/bookings", h.ListWorkerBookings)
}

// GET /v1/workers?category=&location=&max_rate=&q=&sort=rating
func (h *WorkerHandler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.WorkerFilter{
		Category:     models.WorkerCategory(q.Get("category")),
		Location:     q.Get("location"),
		Query:        q.Get("q"),
		SortByRating: strings.EqualFold(q.Get("sort"), "rating"),
	}
	if raw := q.Get("max_rate"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.Error(w, apperrors.Validation("max_rate", "max_rate must be a number"))
			return
		}
		filter.MaxRate = &rate
	}

	workers, err := h.workerService.ListApproved(r.Context(), filter)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"workers": workers,
		"count":   len(workers),
	})
}

// GET /v1/workers/{id}
func (h *WorkerHandler) GetWorker(w http.ResponseWriter, r *http.Request) {
	worker, err := h.workerService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, worker)
}

// POST /v1/workers
func (h *WorkerHandler) RegisterWorker(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	worker, err := h.workerService.Register(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, worker)
}

// PATCH /v1/workers/{id}
func (h *WorkerHandler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	var upd models.WorkerUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	worker, err := h.workerService.Update(r.Context(), chi.URLParam(r, "id"), &upd)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, worker)
}

// GET /v1/workers/{id}/bookings
func (h *WorkerHandler) ListWorkerBookings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.workerService.Get(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	bookings, err := h.bookingService.ListForWorker(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}
