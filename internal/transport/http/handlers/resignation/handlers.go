package resignationhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"hris/internal/domain/audit"
	"hris/internal/domain/auth"
	"hris/internal/domain/core"
	"hris/internal/domain/notifications"
	"hris/internal/domain/resignation"
	"hris/internal/requestctx"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service   *resignation.Service
	Employees *core.Store
	Perms     middleware.PermissionStore
	Notify    *notifications.Service
	Audit     *audit.Service
}

func NewHandler(service *resignation.Service, employees *core.Store, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/resignations", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermResignationRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermResignationWrite, h.Perms)).Post("/", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermResignationApprove, h.Perms)).Post("/{resignationID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermResignationApprove, h.Perms)).Post("/{resignationID}/reject", h.handleReject)
	})
}

type submitRequest struct {
	LastWorkDay string `json:"lastWorkDay"`
	Reason      string `json:"reason"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := requestctx.GetRequestID(r.Context())

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	lastDay, err := shared.ParseDate(payload.LastWorkDay)
	if err != nil || lastDay.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "lastWorkDay must be RFC3339 or YYYY-MM-DD", reqID)
		return
	}

	emp, err := h.Employees.GetEmployeeByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "employee_not_found", "no employee record for caller", reqID)
		return
	}

	res, err := h.Service.Submit(r.Context(), emp.ID, lastDay, payload.Reason)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "resignation_submit_failed", "failed to submit resignation", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "resignation.submit", "resignation", res.ID, reqID, shared.ClientIP(r), nil, res); err != nil {
		slog.Warn("audit resignation.submit failed", "err", err)
	}
	api.Created(w, res, reqID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	user, _ := middleware.GetUser(r.Context())
	reqID := requestctx.GetRequestID(r.Context())

	res, err := h.Service.Decide(r.Context(), chi.URLParam(r, "resignationID"), user.UserID, approve)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusNotFound, "not_found", "resignation not found", reqID)
		return
	case errors.Is(err, resignation.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "already_decided", "the resignation is already decided", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "resignation_decide_failed", "failed to decide resignation", reqID)
		return
	}

	if emp, err := h.Employees.GetEmployee(r.Context(), res.EmployeeID); err == nil && emp.UserID != "" {
		h.Notify.Create(r.Context(), emp.UserID, notifications.TypeResignationDecided, "Resignation decided",
			"Your resignation is now "+res.Status+".")
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "resignation.decide", "resignation", res.ID, reqID, shared.ClientIP(r), nil, map[string]string{"status": res.Status}); err != nil {
		slog.Warn("audit resignation.decide failed", "err", err)
	}
	api.Success(w, res, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	reqID := requestctx.GetRequestID(r.Context())

	employeeID := r.URL.Query().Get("employeeId")
	if user.RoleName == auth.RoleEmployee {
		emp, err := h.Employees.GetEmployeeByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "employee_not_found", "no employee record for caller", reqID)
			return
		}
		employeeID = emp.ID
	}

	resignations, err := h.Service.List(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "resignation_list_failed", "failed to list resignations", reqID)
		return
	}
	api.Success(w, resignations, reqID)
}
