package assethandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"hris/internal/domain/asset"
	"hris/internal/domain/auth"
	"hris/internal/domain/core"
	"hris/internal/domain/notifications"
	"hris/internal/requestctx"
	"hris/internal/transport/http/api"
	"hris/internal/transport/http/middleware"
	"hris/internal/transport/http/shared"
)

type Handler struct {
	Service   *asset.Service
	Employees *core.Store
	Perms     middleware.PermissionStore
	Notify    *notifications.Service
}

func NewHandler(service *asset.Service, employees *core.Store, perms middleware.PermissionStore, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assets", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAssetsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAssetsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermAssetsWrite, h.Perms)).Delete("/{assetID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermAssetsRead, h.Perms)).Get("/{assetID}/history", h.handleHistory)
		r.With(middleware.RequirePermission(auth.PermAssetsWrite, h.Perms)).Post("/{assetID}/assign", h.handleAssign)
		r.With(middleware.RequirePermission(auth.PermAssetsWrite, h.Perms)).Post("/{assetID}/return", h.handleReturn)
	})
}

type assignRequest struct {
	EmployeeID string `json:"employeeId"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload asset.Asset
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "asset name is required", reqID)
		return
	}

	created, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "asset_create_failed", "failed to create asset", reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	assets, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "asset_list_failed", "failed to list assets", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, assets, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "assetID")); err != nil {
		api.Fail(w, http.StatusInternalServerError, "asset_delete_failed", "failed to delete asset", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload assignRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.EmployeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId is required", reqID)
		return
	}

	asg, err := h.Service.Assign(r.Context(), chi.URLParam(r, "assetID"), payload.EmployeeID)
	if errors.Is(err, asset.ErrAlreadyAssigned) {
		api.Fail(w, http.StatusConflict, "already_assigned", "the asset is already assigned", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "asset_assign_failed", "failed to assign asset", reqID)
		return
	}

	if emp, err := h.Employees.GetEmployee(r.Context(), asg.EmployeeID); err == nil && emp.UserID != "" {
		h.Notify.Create(r.Context(), emp.UserID, notifications.TypeAssetAssigned, "Asset assigned",
			"An asset has been assigned to you.")
	}
	api.Created(w, asg, reqID)
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	asg, err := h.Service.Return(r.Context(), chi.URLParam(r, "assetID"), time.Now())
	if errors.Is(err, asset.ErrNotAssigned) {
		api.Fail(w, http.StatusConflict, "not_assigned", "the asset has no open assignment", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "asset_return_failed", "failed to return asset", reqID)
		return
	}
	api.Success(w, asg, reqID)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.Service.History(r.Context(), chi.URLParam(r, "assetID"))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "asset not found", requestctx.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "asset_history_failed", "failed to load assignment history", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, history, requestctx.GetRequestID(r.Context()))
}
