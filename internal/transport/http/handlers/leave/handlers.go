package leavehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"hris/internal/domain/audit"
	"hris/internal/domain/auth"
	"hris/internal/domain/core"
	"hris/internal/domain/leave"
	"hris/internal/domain/notifications"
	"hris/internal/requestctx"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service   *leave.Service
	Employees *core.Store
	Perms     middleware.PermissionStore
	Notify    *notifications.Service
	Audit     *audit.Service
}

func NewHandler(service *leave.Service, employees *core.Store, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/requests", h.handleListRequests)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/requests/{requestID}", h.handleGetRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/requests", h.handleSubmitRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/requests/{requestID}/approve", h.handleApproveRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/requests/{requestID}/reject", h.handleRejectRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/balance", h.handleBalance)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/reports/usage", h.handleReportUsage)
	})
}

type submitRequest struct {
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason"`
}

// resolveEmployee maps the caller to an employee record, or takes the payload
// employee when the caller manages other people's leave.
func (h *Handler) resolveEmployee(r *http.Request, requested string) (string, error) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		return "", errors.New("no user in context")
	}
	if requested != "" && user.RoleName != auth.RoleEmployee {
		return requested, nil
	}
	emp, err := h.Employees.GetEmployeeByUserID(r.Context(), user.UserID)
	if err != nil {
		return "", err
	}
	return emp.ID, nil
}

func (h *Handler) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	start, err := shared.ParseDate(payload.StartDate)
	if err != nil || start.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "startDate must be RFC3339 or YYYY-MM-DD", requestctx.GetRequestID(r.Context()))
		return
	}
	end, err := shared.ParseDate(payload.EndDate)
	if err != nil || end.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "endDate must be RFC3339 or YYYY-MM-DD", requestctx.GetRequestID(r.Context()))
		return
	}

	employeeID, err := h.resolveEmployee(r, payload.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "employee_not_found", "no employee record for caller", requestctx.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.Submit(r.Context(), employeeID, start, end, payload.Reason)
	if err != nil {
		h.failSubmit(w, r, err)
		return
	}

	h.Notify.Create(r.Context(), user.UserID, notifications.TypeLeaveSubmitted, "Leave request submitted",
		"Your leave request for "+strconv.Itoa(req.Days)+" business days was submitted.")
	if err := h.Audit.Record(r.Context(), user.UserID, "leave.request.submit", "leave_request", req.ID, requestctx.GetRequestID(r.Context()), shared.ClientIP(r), nil, req); err != nil {
		slog.Warn("audit leave.request.submit failed", "err", err)
	}
	api.Created(w, req, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) failSubmit(w http.ResponseWriter, r *http.Request, err error) {
	reqID := requestctx.GetRequestID(r.Context())
	switch {
	case errors.Is(err, leave.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "endDate precedes startDate", reqID)
	case errors.Is(err, leave.ErrOverlap):
		api.Fail(w, http.StatusConflict, "overlap", "the period overlaps an existing request", reqID)
	case errors.Is(err, leave.ErrInsufficientBalance):
		api.Fail(w, http.StatusUnprocessableEntity, "insufficient_balance", "not enough remaining leave days", reqID)
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "leave_submit_failed", "failed to submit leave request", reqID)
	}
}

func (h *Handler) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *Handler) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")
	reqID := requestctx.GetRequestID(r.Context())

	var req leave.Request
	var err error
	if approve {
		req, err = h.Service.Approve(r.Context(), requestID, user.UserID, user.RoleName)
	} else {
		req, err = h.Service.Reject(r.Context(), requestID, user.UserID, user.RoleName)
	}
	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
		return
	case errors.Is(err, leave.ErrWrongStage):
		api.Fail(w, http.StatusConflict, "wrong_stage", "the request is already decided", reqID)
		return
	case errors.Is(err, leave.ErrUnauthorizedRole):
		api.Fail(w, http.StatusForbidden, "wrong_approver", "your role cannot decide this stage", reqID)
		return
	default:
		api.Fail(w, http.StatusInternalServerError, "leave_decide_failed", "failed to decide leave request", reqID)
		return
	}

	action := "leave.request.approve"
	ntype := notifications.TypeLeaveApproved
	title := "Leave request advanced"
	if !approve {
		action = "leave.request.reject"
		ntype = notifications.TypeLeaveRejected
		title = "Leave request rejected"
	}
	h.notifyOwner(r, req, ntype, title)
	if err := h.Audit.Record(r.Context(), user.UserID, action, "leave_request", req.ID, reqID, shared.ClientIP(r), nil, map[string]string{"stage": string(req.Stage)}); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
	api.Success(w, req, reqID)
}

func (h *Handler) notifyOwner(r *http.Request, req leave.Request, ntype, title string) {
	emp, err := h.Employees.GetEmployee(r.Context(), req.EmployeeID)
	if err != nil || emp.UserID == "" {
		return
	}
	h.Notify.Create(r.Context(), emp.UserID, ntype, title,
		"Your leave request "+shared.FormatDate(req.StartDate)+" to "+shared.FormatDate(req.EndDate)+" is now "+string(req.Stage)+".")
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	employeeID := r.URL.Query().Get("employeeId")
	if user.RoleName == auth.RoleEmployee {
		emp, err := h.Employees.GetEmployeeByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "employee_not_found", "no employee record for caller", requestctx.GetRequestID(r.Context()))
			return
		}
		employeeID = emp.ID
	}

	requests, err := h.Service.List(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.Get(r.Context(), chi.URLParam(r, "requestID"))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_get_failed", "failed to load leave request", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, req, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	year := leave.YearOf(time.Now())
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_year", "year must be numeric", requestctx.GetRequestID(r.Context()))
			return
		}
		year = parsed
	}

	employeeID, err := h.resolveEmployee(r, r.URL.Query().Get("employeeId"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "employee_not_found", "no employee record for caller", requestctx.GetRequestID(r.Context()))
		return
	}

	balance, err := h.Service.BalanceFor(r.Context(), employeeID, year)
	switch {
	case errors.Is(err, leave.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_year", "year precedes the hire year", requestctx.GetRequestID(r.Context()))
		return
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestctx.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "leave_balance_failed", "failed to compute balance", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, balance, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleReportUsage(w http.ResponseWriter, r *http.Request) {
	year := leave.YearOf(time.Now())
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_year", "year must be numeric", requestctx.GetRequestID(r.Context()))
			return
		}
		year = parsed
	}

	report, err := h.Service.ReportUsage(r.Context(), year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_report_failed", "failed to build usage report", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, report, requestctx.GetRequestID(r.Context()))
}
