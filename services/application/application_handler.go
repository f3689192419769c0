package applicationservice

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"unilance/models"
	"unilance/providers"
	"unilance/utils"
)

type ApplicationHandler struct {
	Service        ApplicationService
	AuthMiddleware providers.AuthMiddlewareService
}

func NewApplicationHandler(service ApplicationService, auth providers.AuthMiddlewareService) *ApplicationHandler {
	return &ApplicationHandler{
		Service:        service,
		AuthMiddleware: auth,
	}
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}
	if principal.Role != models.StudentRole {
		utils.RespondError(w, http.StatusForbidden, nil, "only students can apply")
		return
	}
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid project id")
		return
	}

	var req ApplyReq
	if err := utils.ParseJSONBody(r, &req); err != nil && !errors.Is(err, utils.ErrEmptyBody) {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid input")
		return
	}

	app, err := h.Service.Apply(r.Context(), projectID, principal.ID, req)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		utils.RespondError(w, http.StatusNotFound, err, "project not found")
	case errors.Is(err, ErrOwnProject):
		utils.RespondError(w, http.StatusUnprocessableEntity, err, "cannot apply to your own project")
	case errors.Is(err, ErrProjectNotOpen):
		utils.RespondError(w, http.StatusConflict, err, "project is not accepting applications")
	case errors.Is(err, ErrDuplicate):
		utils.RespondError(w, http.StatusConflict, err, "you already applied to this project")
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to submit application")
	default:
		utils.RespondJSON(w, http.StatusCreated, app)
	}
}

func (h *ApplicationHandler) ListForProject(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid project id")
		return
	}

	q := utils.PageParams(r)
	apps, total, err := h.Service.ListForProject(r.Context(), projectID, principal.ID, q.Limit, q.Offset)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		utils.RespondError(w, http.StatusNotFound, err, "project not found")
	case errors.Is(err, ErrNotOwner):
		utils.RespondError(w, http.StatusForbidden, err, "only the project owner can review applications")
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to list applications")
	default:
		utils.RespondList(w, apps, q, total)
	}
}

func (h *ApplicationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}

	q := utils.PageParams(r)
	apps, total, err := h.Service.Mine(r.Context(), principal.ID, q.Limit, q.Offset)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to list applications")
		return
	}
	utils.RespondList(w, apps, q, total)
}

func (h *ApplicationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Accept)
}

func (h *ApplicationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Decline)
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Withdraw)
}

func (h *ApplicationHandler) transition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, id, callerID uuid.UUID) (Application, error)) {

	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid application id")
		return
	}

	app, err := op(r.Context(), id, principal.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		utils.RespondError(w, http.StatusNotFound, err, "application not found")
	case errors.Is(err, ErrNotPending):
		utils.RespondError(w, http.StatusConflict, err, "application is no longer pending")
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to update application")
	default:
		utils.RespondJSON(w, http.StatusOK, app)
	}
}
