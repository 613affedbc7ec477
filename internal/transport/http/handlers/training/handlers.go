package traininghandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"hris/internal/domain/auth"
	"hris/internal/domain/core"
	"hris/internal/domain/notifications"
	"hris/internal/domain/training"
	"hris/internal/requestctx"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service   *training.Service
	Employees *core.Store
	Perms     middleware.PermissionStore
	Notify    *notifications.Service
}

func NewHandler(service *training.Service, employees *core.Store, perms middleware.PermissionStore, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/trainings", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTrainingRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Delete("/{trainingID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermTrainingRead, h.Perms)).Get("/{trainingID}/enrollments", h.handleEnrollments)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Post("/{trainingID}/enrollments", h.handleEnroll)
		r.With(middleware.RequirePermission(auth.PermTrainingWrite, h.Perms)).Post("/enrollments/{enrollmentID}/complete", h.handleComplete)
	})
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Instructor  string `json:"instructor"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type enrollRequest struct {
	EmployeeID string `json:"employeeId"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Title == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "title is required", reqID)
		return
	}
	start, err := shared.ParseDate(payload.StartDate)
	if err != nil || start.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "startDate must be RFC3339 or YYYY-MM-DD", reqID)
		return
	}
	end, err := shared.ParseDate(payload.EndDate)
	if err != nil || end.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "endDate must be RFC3339 or YYYY-MM-DD", reqID)
		return
	}

	tr, err := h.Service.Create(r.Context(), training.Training{
		Title:       payload.Title,
		Description: payload.Description,
		Instructor:  payload.Instructor,
		StartDate:   start,
		EndDate:     end,
	})
	if errors.Is(err, training.ErrInvalidWindow) {
		api.Fail(w, http.StatusBadRequest, "invalid_window", "endDate precedes startDate", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "training_create_failed", "failed to create training", reqID)
		return
	}
	api.Created(w, tr, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	trainings, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "training_list_failed", "failed to list trainings", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, trainings, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "trainingID")); err != nil {
		api.Fail(w, http.StatusInternalServerError, "training_delete_failed", "failed to delete training", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.EmployeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId is required", reqID)
		return
	}

	enr, err := h.Service.Enroll(r.Context(), chi.URLParam(r, "trainingID"), payload.EmployeeID)
	if errors.Is(err, training.ErrAlreadyEnrolled) {
		api.Fail(w, http.StatusConflict, "already_enrolled", "employee is already enrolled", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "enroll_failed", "failed to enroll employee", reqID)
		return
	}

	if emp, err := h.Employees.GetEmployee(r.Context(), enr.EmployeeID); err == nil && emp.UserID != "" {
		h.Notify.Create(r.Context(), emp.UserID, notifications.TypeTrainingEnrolled, "Training enrollment",
			"You have been enrolled in a training.")
	}
	api.Created(w, enr, reqID)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Complete(r.Context(), chi.URLParam(r, "enrollmentID")); err != nil {
		api.Fail(w, http.StatusInternalServerError, "complete_failed", "failed to mark enrollment completed", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "completed"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.Service.Enrollments(r.Context(), chi.URLParam(r, "trainingID"))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "training not found", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "enrollments_failed", "failed to list enrollments", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, enrollments, requestctx.GetRequestID(r.Context()))
}
