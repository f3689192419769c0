package notificationservice

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"unilance/providers"
	"unilance/utils"
)

type NotificationHandler struct {
	Service        NotificationService
	AuthMiddleware providers.AuthMiddlewareService
}

func NewNotificationHandler(service NotificationService, auth providers.AuthMiddlewareService) *NotificationHandler {
	return &NotificationHandler{
		Service:        service,
		AuthMiddleware: auth,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}

	q := utils.PageParams(r)
	filter := NotificationFilter{Limit: q.Limit, Offset: q.Offset}
	if v := r.URL.Query().Get("unread"); v != "" {
		filter.Unread, _ = strconv.ParseBool(v)
	}

	rows, total, err := h.Service.List(r.Context(), principal.ID, filter)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to list notifications")
		return
	}
	utils.RespondList(w, rows, q, total)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid notification id")
		return
	}

	err = h.Service.MarkRead(r.Context(), id, principal.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		utils.RespondError(w, http.StatusNotFound, err, "notification not found")
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to mark notification read")
	default:
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "notification marked read"})
	}
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}

	updated, err := h.Service.MarkAllRead(r.Context(), principal.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to mark notifications read")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

func (h *NotificationHandler) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}

	var req RegisterTokenReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid input")
		return
	}

	if err := h.Service.RegisterDeviceToken(r.Context(), principal.ID, req); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to register device token")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "device token registered"})
}

func (h *NotificationHandler) RemoveDeviceToken(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}
	token := chi.URLParam(r, "token")
	if token == "" {
		utils.RespondError(w, http.StatusBadRequest, nil, "missing device token")
		return
	}

	if err := h.Service.RemoveDeviceToken(r.Context(), principal.ID, token); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to remove device token")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "device token removed"})
}
