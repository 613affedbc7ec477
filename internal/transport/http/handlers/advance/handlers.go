package advancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"hris/internal/domain/advance"
	"hris/internal/domain/audit"
	"hris/internal/domain/auth"
	"hris/internal/domain/core"
	"hris/internal/domain/notifications"
	"hris/internal/requestctx"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service   *advance.Service
	Employees *core.Store
	Perms     middleware.PermissionStore
	Notify    *notifications.Service
	Audit     *audit.Service
}

func NewHandler(service *advance.Service, employees *core.Store, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/advances", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAdvanceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAdvanceWrite, h.Perms)).Post("/", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermAdvanceApprove, h.Perms)).Post("/{advanceID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermAdvanceApprove, h.Perms)).Post("/{advanceID}/reject", h.handleReject)
	})
}

type submitRequest struct {
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := requestctx.GetRequestID(r.Context())

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must be a decimal string", reqID)
		return
	}

	emp, err := h.Employees.GetEmployeeByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "employee_not_found", "no employee record for caller", reqID)
		return
	}

	req, err := h.Service.Submit(r.Context(), emp.ID, amount, payload.Reason)
	switch {
	case errors.Is(err, advance.ErrInvalidAmount):
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must be positive", reqID)
		return
	case errors.Is(err, advance.ErrOverLimit):
		api.Fail(w, http.StatusUnprocessableEntity, "over_limit", "amount exceeds your gross salary", reqID)
		return
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusUnprocessableEntity, "no_salary_reference", "no salary reference to cap the advance", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "advance_submit_failed", "failed to submit advance request", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "advance.request.submit", "advance_request", req.ID, reqID, shared.ClientIP(r), nil, req); err != nil {
		slog.Warn("audit advance.request.submit failed", "err", err)
	}
	api.Created(w, req, reqID)
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

	req, err := h.Service.Decide(r.Context(), chi.URLParam(r, "advanceID"), user.UserID, approve)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusNotFound, "not_found", "advance request not found", reqID)
		return
	case errors.Is(err, advance.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "already_decided", "the advance request is already decided", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "advance_decide_failed", "failed to decide advance request", reqID)
		return
	}

	if emp, err := h.Employees.GetEmployee(r.Context(), req.EmployeeID); err == nil && emp.UserID != "" {
		h.Notify.Create(r.Context(), emp.UserID, notifications.TypeAdvanceDecided, "Advance request decided",
			"Your advance request is now "+req.Status+".")
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "advance.request.decide", "advance_request", req.ID, reqID, shared.ClientIP(r), nil, map[string]string{"status": req.Status}); err != nil {
		slog.Warn("audit advance.request.decide failed", "err", err)
	}
	api.Success(w, req, reqID)
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

	requests, err := h.Service.List(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "advance_list_failed", "failed to list advance requests", reqID)
		return
	}
	api.Success(w, requests, reqID)
}
