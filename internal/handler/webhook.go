package handler

import (
	"log"
	"net/http"

	"autobier-api/internal/dto"
	"autobier-api/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// HandleAsaas receives gateway payment notifications. The response is always
// 200: a non-2xx answer would make the gateway retry indefinitely, including
// on our own bugs. Malformed payloads ack {received:false} without touching
// anything; processing errors ack {received:true} and are logged.
// POST /api/order/webhook/asaas
func (h *WebhookHandler) HandleAsaas(c echo.Context) error {
	ctx := c.Request().Context()

	var payload dto.WebhookPayload
	if err := c.Bind(&payload); err != nil || payload.Event == "" || payload.Payment.ID == "" {
		return c.JSON(http.StatusOK, &dto.WebhookAck{Received: false})
	}

	log.Printf("webhook asaas: [%s] payment %s", payload.Event, payload.Payment.ID)

	if err := h.webhookService.Process(ctx, payload.Event, payload.Payment.ID); err != nil {
		log.Printf("webhook asaas: processing %s for payment %s failed: %v",
			payload.Event, payload.Payment.ID, err)
		return c.JSON(http.StatusOK, &dto.WebhookAck{Received: true, Error: err.Error()})
	}

	return c.JSON(http.StatusOK, &dto.WebhookAck{Received: true})
}
