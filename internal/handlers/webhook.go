package handlers

import (
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
)

// Enqueuer hands a decoded update to the conversation dispatcher.
type Enqueuer interface {
	Enqueue(update tgbotapi.Update) error
}

// webhookResponse is the envelope Telegram receives for every delivery.
// Failures still answer HTTP 200; the platform does not want non-200 here.
type webhookResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type WebhookHandler struct {
	logger     *slog.Logger
	dispatcher Enqueuer
}

func NewWebhookHandler(log *slog.Logger, dispatcher Enqueuer) *WebhookHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookHandler{
		logger:     log.With(slog.String("handler", "webhook")),
		dispatcher: dispatcher,
	}
}

func (h *WebhookHandler) Register(e *echo.Echo) {
	e.POST("/webhook", h.Receive)
}

func (h *WebhookHandler) Receive(c echo.Context) error {
	var update tgbotapi.Update
	if err := c.Bind(&update); err != nil {
		h.logger.Error("decode update failed", slog.Any("error", err))
		return c.JSON(http.StatusOK, webhookResponse{OK: false, Error: err.Error()})
	}
	if err := h.dispatcher.Enqueue(update); err != nil {
		h.logger.Error("enqueue update failed",
			slog.Int("update_id", update.UpdateID),
			slog.Any("error", err))
		return c.JSON(http.StatusOK, webhookResponse{OK: false, Error: err.Error()})
	}
	return c.JSON(http.StatusOK, webhookResponse{OK: true})
}
