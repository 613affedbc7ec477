package payrollhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"hris/internal/domain/audit"
	"hris/internal/domain/auth"
	"hris/internal/domain/core"
	"hris/internal/domain/notifications"
	"hris/internal/domain/payroll"
	"hris/internal/requestctx"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service   *payroll.Service
	Employees *core.Store
	Perms     middleware.PermissionStore
	Notify    *notifications.Service
	Audit     *audit.Service
}

func NewHandler(service *payroll.Service, employees *core.Store, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/records", h.handleListRecords)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/records/{recordID}", h.handleGetRecord)
		r.With(middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)).Post("/records", h.handleCreateRecord)
		r.With(middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)).Put("/records/{recordID}", h.handleReplaceRecord)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/records/{recordID}/payslip", h.handlePayslip)
		r.With(middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)).Post("/preview", h.handlePreview)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/register", h.handleRegister)
	})
}

type recordRequest struct {
	EmployeeID  string `json:"employeeId"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	GrossSalary string `json:"grossSalary"`
}

type previewRequest struct {
	GrossSalary string `json:"grossSalary"`
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := requestctx.GetRequestID(r.Context())

	var payload recordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.EmployeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	gross, err := decimal.NewFromString(payload.GrossSalary)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "grossSalary must be a decimal string", reqID)
		return
	}

	rec, err := h.Service.CreateRecord(r.Context(), payload.EmployeeID, payload.Year, payload.Month, gross)
	if err != nil {
		h.failRecord(w, reqID, err)
		return
	}

	if emp, err := h.Employees.GetEmployee(r.Context(), rec.EmployeeID); err == nil && emp.UserID != "" {
		h.Notify.Create(r.Context(), emp.UserID, notifications.TypePayslipPublished, "Payslip available",
			"Your payslip for "+strconv.Itoa(rec.Month)+"/"+strconv.Itoa(rec.Year)+" is ready.")
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.record.create", "payroll_record", rec.ID, reqID, shared.ClientIP(r), nil, rec); err != nil {
		slog.Warn("audit payroll.record.create failed", "err", err)
	}
	api.Created(w, rec, reqID)
}

func (h *Handler) handleReplaceRecord(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := requestctx.GetRequestID(r.Context())
	recordID := chi.URLParam(r, "recordID")

	var payload previewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	gross, err := decimal.NewFromString(payload.GrossSalary)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "grossSalary must be a decimal string", reqID)
		return
	}

	rec, err := h.Service.ReplaceRecord(r.Context(), recordID, gross)
	if err != nil {
		h.failRecord(w, reqID, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.record.replace", "payroll_record", rec.ID, reqID, shared.ClientIP(r), map[string]string{"replaced": recordID}, rec); err != nil {
		slog.Warn("audit payroll.record.replace failed", "err", err)
	}
	api.Success(w, rec, reqID)
}

func (h *Handler) failRecord(w http.ResponseWriter, reqID string, err error) {
	switch {
	case errors.Is(err, payroll.ErrNegativeSalary):
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "gross salary must be positive", reqID)
	case errors.Is(err, payroll.ErrInvalidMonth):
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be between 1 and 12", reqID)
	case errors.Is(err, payroll.ErrDuplicatePeriod):
		api.Fail(w, http.StatusConflict, "duplicate_period", "a record already exists for this period", reqID)
	case errors.Is(err, payroll.ErrOutOfBand):
		api.Fail(w, http.StatusUnprocessableEntity, "out_of_band", "gross salary is outside the position's salary band", reqID)
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusNotFound, "not_found", "employee or record not found", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "failed to process payroll record", reqID)
	}
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
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
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))

	records, err := h.Service.List(r.Context(), employeeID, year, month, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_list_failed", "failed to list payroll records", reqID)
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "recordID"))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll record not found", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_get_failed", "failed to load payroll record", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rec, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload previewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	gross, err := decimal.NewFromString(payload.GrossSalary)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "grossSalary must be a decimal string", reqID)
		return
	}

	breakdown, err := h.Service.Preview(r.Context(), gross)
	if errors.Is(err, payroll.ErrNegativeSalary) {
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "gross salary must be positive", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_preview_failed", "failed to compute breakdown", reqID)
		return
	}
	api.Success(w, breakdown, reqID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	data, err := h.Service.Store.PayslipData(r.Context(), chi.URLParam(r, "recordID"))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll record not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load payslip data", reqID)
		return
	}

	pdf, err := payroll.RenderPayslip(data)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="payslip.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("payslip write failed", "err", err)
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_year", "year must be numeric", reqID)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be between 1 and 12", reqID)
		return
	}

	rows, err := h.Service.Store.RegisterRows(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "register_failed", "failed to load register rows", reqID)
		return
	}

	book, err := payroll.RenderRegister(year, month, rows)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "register_failed", "failed to render register", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="payroll-register.xlsx"`)
	if _, err := w.Write(book); err != nil {
		slog.Warn("register write failed", "err", err)
	}
}
