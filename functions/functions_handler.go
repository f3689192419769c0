package functions

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"unilance/providers"
	notificationservice "unilance/services/notification"
	"unilance/utils"
)

// Handler hosts the two platform functions. They run in their own binary
// behind a shared-secret check but reuse the API's providers, so delivery
// behaves the same no matter which side triggered it.
type Handler struct {
	Tokens notificationservice.NotificationRepository
	Push   providers.PushProvider
	Mail   providers.MailProvider
	Logger *zap.Logger
}

func NewHandler(
	tokens notificationservice.NotificationRepository,
	push providers.PushProvider,
	mail providers.MailProvider,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Tokens: tokens,
		Push:   push,
		Mail:   mail,
		Logger: logger,
	}
}

// Notify fans a push message out to every device registered for a user and
// prunes tokens the push service reports as gone.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var req NotifyReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid input")
		return
	}

	tokens, err := h.Tokens.TokensForUser(r.Context(), req.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to load device tokens")
		return
	}
	if len(tokens) == 0 {
		utils.RespondJSON(w, http.StatusOK, map[string]int{"delivered": 0, "failed": 0})
		return
	}

	res, err := h.Push.Send(r.Context(), tokens, req.Title, req.Body, req.Data)
	if err != nil {
		utils.RespondError(w, http.StatusBadGateway, err, "failed to reach the push service")
		return
	}
	if len(res.InvalidTokens) > 0 {
		if err := h.Tokens.DeleteTokens(r.Context(), res.InvalidTokens); err != nil {
			h.Logger.Warn("failed to prune stale device tokens",
				zap.Int("count", len(res.InvalidTokens)), zap.Error(err))
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]int{
		"delivered": res.Delivered,
		"failed":    res.Failed,
	})
}

// SendEmail renders one of the embedded templates and relays it through the
// hosted email API.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req SendEmailReq
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := validator.New().Struct(req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "invalid input")
		return
	}

	subject, html, err := h.Mail.Render(req.Template, req.Data)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "unknown email template")
		return
	}

	id, err := h.Mail.Send(r.Context(), req.To, subject, html)
	if err != nil {
		utils.RespondError(w, http.StatusBadGateway, err, "failed to send email")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"id": id})
}
