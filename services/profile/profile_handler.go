package profileservice

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"unilance/providers"
	"unilance/utils"
)

type ProfileHandler struct {
	Service        ProfileService
	AuthMiddleware providers.AuthMiddlewareService
}

func NewProfileHandler(service ProfileService, auth providers.AuthMiddlewareService) *ProfileHandler {
	return &ProfileHandler{
		Service:        service,
		AuthMiddleware: auth,
	}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}

	profile, err := h.Service.Me(r.Context(), principal.ID)
	if errors.Is(err, sql.ErrNoRows) {
		utils.RespondJSON(w, http.StatusNotFound, map[string]bool{"onboarded": false})
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch profile")
		return
	}
	utils.RespondJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Onboarding(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}

	var req OnboardingReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid input")
		return
	}

	profile, err := h.Service.CompleteOnboarding(r.Context(), principal, req)
	if errors.Is(err, ErrRoleMismatch) {
		utils.RespondError(w, http.StatusUnprocessableEntity, err, "role does not match your account")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to complete onboarding")
		return
	}
	utils.RespondJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}

	var req UpdateProfileReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid input")
		return
	}

	profile, err := h.Service.Update(r.Context(), principal.ID, req)
	switch {
	case errors.Is(err, ErrNoFields):
		utils.RespondError(w, http.StatusBadRequest, err, "no fields to update")
	case errors.Is(err, sql.ErrNoRows):
		utils.RespondError(w, http.StatusNotFound, err, "profile not found")
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to update profile")
	default:
		utils.RespondJSON(w, http.StatusOK, profile)
	}
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, utils.MaxAvatarBytes+4096)
	if err := r.ParseMultipartForm(utils.MaxAvatarBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(w, http.StatusRequestEntityTooLarge, err, "avatar exceeds the 2 MiB limit")
			return
		}
		utils.RespondError(w, http.StatusBadRequest, err, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "missing avatar file")
		return
	}
	defer file.Close()

	avatarURL, err := h.Service.UploadAvatar(r.Context(), principal.ID,
		header.Header.Get("Content-Type"), header.Size, file)
	switch {
	case errors.Is(err, ErrAvatarTooLarge):
		utils.RespondError(w, http.StatusRequestEntityTooLarge, err, "avatar exceeds the 2 MiB limit")
	case errors.Is(err, ErrUnsupportedAvatarType):
		utils.RespondError(w, http.StatusUnsupportedMediaType, err, "avatar must be png, jpeg or webp")
	case errors.Is(err, sql.ErrNoRows):
		utils.RespondError(w, http.StatusNotFound, err, "complete onboarding first")
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to store avatar")
	default:
		utils.RespondJSON(w, http.StatusOK, map[string]string{"avatar_url": avatarURL})
	}
}

func (h *ProfileHandler) RemoveAvatar(w http.ResponseWriter, r *http.Request) {
	principal, err := h.AuthMiddleware.GetPrincipalFromContext(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "unauthorized")
		return
	}

	err = h.Service.RemoveAvatar(r.Context(), principal.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		utils.RespondError(w, http.StatusNotFound, err, "profile not found")
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to remove avatar")
	default:
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "avatar removed"})
	}
}

func (h *ProfileHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid profile id")
		return
	}

	profile, err := h.Service.PublicProfile(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		utils.RespondError(w, http.StatusNotFound, err, "profile not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to fetch profile")
		return
	}
	utils.RespondJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Students(w http.ResponseWriter, r *http.Request) {
	q := utils.PageParams(r)
	filter := StudentFilter{
		Skill:      r.URL.Query().Get("skill"),
		University: r.URL.Query().Get("university"),
		Limit:      q.Limit,
		Offset:     q.Offset,
	}

	students, total, err := h.Service.Students(r.Context(), filter)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to list students")
		return
	}
	utils.RespondList(w, students, q, total)
}
