package accountservice

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"unilance/providers"
	"unilance/utils"
)

type AccountHandler struct {
	Service  AccountService
	Sessions providers.SessionService
	Logger   *zap.Logger
}

func NewAccountHandler(service AccountService, sessions providers.SessionService, lg *zap.Logger) *AccountHandler {
	return &AccountHandler{
		Service:  service,
		Sessions: sessions,
		Logger:   lg,
	}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid input")
		return
	}

	session, identity, err := h.Service.Register(r.Context(), req)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "registration failed")
		return
	}

	// The platform holds the session back until the address is confirmed.
	if session == nil {
		utils.RespondJSON(w, http.StatusAccepted, map[string]string{"message": "confirmation email sent"})
		return
	}

	if err := h.Sessions.Save(w, r, session); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to persist session")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, newSessionRes(session, identity))
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid input")
		return
	}

	session, identity, err := h.Service.Login(r.Context(), req)
	if err != nil {
		// One message for every failure mode so the endpoint cannot be used
		// to probe which addresses exist.
		utils.RespondError(w, http.StatusUnauthorized, err, "invalid email or password")
		return
	}

	if err := h.Sessions.Save(w, r, session); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to persist session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, newSessionRes(session, identity))
}

func (h *AccountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshReq
	if err := utils.ParseJSONBody(r, &req); err != nil && !errors.Is(err, utils.ErrEmptyBody) {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		if _, fromCookie, err := h.Sessions.Tokens(r); err == nil {
			refreshToken = fromCookie
		}
	}
	if refreshToken == "" {
		utils.RespondError(w, http.StatusUnauthorized, errors.New("no refresh token"), "no refresh token")
		return
	}

	session, err := h.Service.Refresh(r.Context(), refreshToken)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err, "refresh failed")
		return
	}

	if err := h.Sessions.Save(w, r, session); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to persist session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, newSessionRes(session, nil))
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.accessToken(r); token != "" {
		if err := h.Service.Logout(r.Context(), token); err != nil {
			// The local session is cleared regardless; an upstream revoke
			// failure only shortens nothing.
			h.Logger.Warn("upstream logout failed", zap.Error(err))
		}
	}

	if err := h.Sessions.Clear(w, r); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to clear session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AccountHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req RecoverReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid input")
		return
	}

	if err := h.Service.Recover(r.Context(), req.Email); err != nil {
		// Same response either way; the caller learns nothing about the
		// address.
		h.Logger.Warn("recovery email failed", zap.Error(err))
	}
	utils.RespondJSON(w, http.StatusAccepted, map[string]string{"message": "if the address exists, a recovery email is on its way"})
}

func (h *AccountHandler) accessToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if access, _, err := h.Sessions.Tokens(r); err == nil {
		return access
	}
	return ""
}
