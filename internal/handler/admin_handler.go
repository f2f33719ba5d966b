package handler

import (
	"net/http"

	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/service"
	"github.com/aditya/worknearby/pkg/utils"
	"github.com/go-chi/chi/v5"
)

// AdminHandler serves the worker review queue. Whether these routes sit
// behind RequireSession is decided by the router.
type AdminHandler struct {
	workerService service.WorkerService
}

func NewAdminHandler(workerService service.WorkerService) *AdminHandler {
	return &AdminHandler{workerService: workerService}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/workers", h.ListWorkers)
	r.Post("/admin/workers/{id}/approve", h.ApproveWorker)
	r.Post("/admin/workers/{id}/reject", h.RejectWorker)
}

// GET /v1/admin/workers?status=pending
func (h *AdminHandler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	status := models.ApprovalStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.ApprovalPending
	}

	workers, err := h.workerService.ListByStatus(r.Context(), status)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"status":  status,
		"workers": workers,
		"count":   len(workers),
	})
}

// POST /v1/admin/workers/{id}/approve
func (h *AdminHandler) ApproveWorker(w http.ResponseWriter, r *http.Request) {
	worker, err := h.workerService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, worker)
}

// POST /v1/admin/workers/{id}/reject
func (h *AdminHandler) RejectWorker(w http.ResponseWriter, r *http.Request) {
	worker, err := h.workerService.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, worker)
}
