package timesheethandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"hris/internal/domain/auth"
	"hris/internal/domain/core"
	"hris/internal/domain/timesheet"
	"hris/internal/requestctx"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service   *timesheet.Service
	Employees *core.Store
	Perms     middleware.PermissionStore
}

func NewHandler(service *timesheet.Service, employees *core.Store, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/timesheet", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTimesheetWrite, h.Perms)).Post("/clock-in", h.handleClockIn)
		r.With(middleware.RequirePermission(auth.PermTimesheetWrite, h.Perms)).Post("/clock-out", h.handleClockOut)
		r.With(middleware.RequirePermission(auth.PermTimesheetRead, h.Perms)).Get("/entries", h.handleEntries)
	})
}

func (h *Handler) callerEmployee(r *http.Request) (string, error) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		return "", errors.New("no user in context")
	}
	emp, err := h.Employees.GetEmployeeByUserID(r.Context(), user.UserID)
	if err != nil {
		return "", err
	}
	return emp.ID, nil
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	employeeID, err := h.callerEmployee(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "employee_not_found", "no employee record for caller", reqID)
		return
	}

	entry, err := h.Service.ClockIn(r.Context(), employeeID, time.Now())
	if errors.Is(err, timesheet.ErrAlreadyClockedIn) {
		api.Fail(w, http.StatusConflict, "already_clocked_in", "an open entry already exists", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "clock_in_failed", "failed to clock in", reqID)
		return
	}
	api.Created(w, entry, reqID)
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	employeeID, err := h.callerEmployee(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "employee_not_found", "no employee record for caller", reqID)
		return
	}

	entry, err := h.Service.ClockOut(r.Context(), employeeID, time.Now())
	if errors.Is(err, timesheet.ErrNotClockedIn) {
		api.Fail(w, http.StatusConflict, "not_clocked_in", "no open entry to close", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "clock_out_failed", "failed to clock out", reqID)
		return
	}
	api.Success(w, entry, reqID)
}

func (h *Handler) handleEntries(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := requestctx.GetRequestID(r.Context())

	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" || user.RoleName == auth.RoleEmployee {
		resolved, err := h.callerEmployee(r)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "employee_not_found", "no employee record for caller", reqID)
			return
		}
		employeeID = resolved
	}

	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be RFC3339 or YYYY-MM-DD", reqID)
		return
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "to must be RFC3339 or YYYY-MM-DD", reqID)
		return
	}
	if from.IsZero() {
		now := time.Now()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	}
	if to.IsZero() {
		to = from.AddDate(0, 1, 0)
	}

	entries, err := h.Service.Entries(r.Context(), employeeID, from, to)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "entries_failed", "failed to list entries", reqID)
		return
	}

	api.Success(w, map[string]any{
		"entries":    entries,
		"totalHours": timesheet.TotalHours(entries),
	}, reqID)
}
