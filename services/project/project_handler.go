package projectservice

import (
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

type ProjectHandler struct {
	Service        ProjectService
	AuthMiddleware providers.AuthMiddlewareService
}

func NewProjectHandler(service ProjectService, auth providers.AuthMiddlewareService) *ProjectHandler {
	return &ProjectHandler{
		Service:        service,
		AuthMiddleware: auth,
	}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}
	if principal.Role != models.EntrepreneurRole {
		utils.RespondError(w, http.StatusForbidden, nil, "only entrepreneurs can post projects")
		return
	}

	var req CreateProjectReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid input")
		return
	}

	project, err := h.Service.Create(r.Context(), principal.ID, req)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to create project")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, project)
}

// Get is public. A signed-in viewer widens visibility to non-open projects
// they own or applied to.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid project id")
		return
	}

	viewerID := uuid.Nil
	if principal, err := h.AuthMiddleware.GetPrincipalFromContext(r); err == nil {
		viewerID = principal.ID
	}

	project, err := h.Service.Get(r.Context(), id, viewerID)
	if errors.Is(err, sql.ErrNoRows) {
		utils.RespondError(w, http.StatusNotFound, err, "project not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch project")
		return
	}
	utils.RespondJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := utils.PageParams(r)
	filter := ProjectFilter{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
		Skill:    r.URL.Query().Get("skill"),
		Query:    r.URL.Query().Get("q"),
		Limit:    q.Limit,
		Offset:   q.Offset,
	}

	projects, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to list projects")
		return
	}
	utils.RespondList(w, projects, q, total)
}

func (h *ProjectHandler) Mine(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}
	if principal.Role != models.EntrepreneurRole {
		utils.RespondError(w, http.StatusForbidden, nil, "only entrepreneurs have posted projects")
		return
	}

	q := utils.PageParams(r)
	projects, total, err := h.Service.Mine(r.Context(), principal.ID, q.Limit, q.Offset)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to list own projects")
		return
	}
	utils.RespondList(w, projects, q, total)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid project id")
		return
	}

	var req UpdateProjectReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid input")
		return
	}

	project, err := h.Service.Update(r.Context(), id, principal.ID, req)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		utils.RespondError(w, http.StatusNotFound, err, "project not found")
	case errors.Is(err, ErrNotOwner):
		utils.RespondError(w, http.StatusForbidden, err, "only the owner can update a project")
	case errors.Is(err, ErrInvalidTransition):
		utils.RespondError(w, http.StatusUnprocessableEntity, err, "status transition not allowed")
	case errors.Is(err, ErrNoFields):
		utils.RespondError(w, http.StatusBadRequest, err, "no fields to update")
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to update project")
	default:
		utils.RespondJSON(w, http.StatusOK, project)
	}
}

func (h *ProjectHandler) Archive(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid project id")
		return
	}

	err = h.Service.Archive(r.Context(), id, principal.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		utils.RespondError(w, http.StatusNotFound, err, "project not found")
	case errors.Is(err, ErrNotOwner):
		utils.RespondError(w, http.StatusForbidden, err, "only the owner can archive a project")
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to archive project")
	default:
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "project archived"})
	}
}
