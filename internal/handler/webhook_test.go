package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"autobier-api/internal/client"
	"autobier-api/internal/dto"
	"autobier-api/internal/model"
	"autobier-api/internal/repository"
	"autobier-api/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	))

	return db
}

func seedPendingOrder(t *testing.T, db *gorm.DB, paymentID string) *model.Order {
	t.Helper()

	order := &model.Order{
		CustomerName:   "Cliente Teste",
		CustomerCPF:    "52998224725",
		TotalValue:     decimal.RequireFromString("30.00"),
		Status:         model.OrderPending,
		AsaasPaymentID: paymentID,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func postWebhook(t *testing.T, h *WebhookHandler, body string) *dto.WebhookAck {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/order/webhook/asaas", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandleAsaas(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code, "webhook endpoint always answers 200")

	var ack dto.WebhookAck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	return &ack
}

func TestWebhookHandlerConfirmed(t *testing.T) {
	db := newTestDB(t)
	order := seedPendingOrder(t, db, "pay_123")
	h := NewWebhookHandler(service.NewWebhookService(db, repository.NewOrderRepository(db)))

	ack := postWebhook(t, h, `{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_123","status":"CONFIRMED"}}`)
	assert.True(t, ack.Received)

	var stored model.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, model.OrderPaid, stored.Status)
}

func TestWebhookHandlerMalformedPayload(t *testing.T) {
	db := newTestDB(t)
	order := seedPendingOrder(t, db, "pay_123")
	h := NewWebhookHandler(service.NewWebhookService(db, repository.NewOrderRepository(db)))

	tests := []struct {
		name string
		body string
	}{
		{"missing payment id", `{"event":"PAYMENT_CONFIRMED","payment":{}}`},
		{"missing event", `{"payment":{"id":"pay_123"}}`},
		{"not json", `not-json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := postWebhook(t, h, tt.body)
			assert.False(t, ack.Received)
		})
	}

	var stored model.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, model.OrderPending, stored.Status, "malformed payloads mutate nothing")
}

func TestWebhookHandlerUnknownEventStillAcks(t *testing.T) {
	db := newTestDB(t)
	seedPendingOrder(t, db, "pay_123")
	h := NewWebhookHandler(service.NewWebhookService(db, repository.NewOrderRepository(db)))

	ack := postWebhook(t, h, `{"event":"PAYMENT_ANTICIPATED","payment":{"id":"pay_123"}}`)
	assert.True(t, ack.Received)
	assert.Empty(t, ack.Error)
}

// stubGateway backs the order handler tests.
type stubGateway struct {
	chargeErr error
}

func (s *stubGateway) ResolveCustomer(context.Context, string, string, string) (string, error) {
	return "cus_stub", nil
}

func (s *stubGateway) CreateCharge(_ context.Context, _ string, value decimal.Decimal) (*client.PixCharge, error) {
	if s.chargeErr != nil {
		return nil, s.chargeErr
	}
	return &client.PixCharge{
		ID:            "pay_stub",
		QRCodeBase64:  "qr",
		CopyPasteCode: "copy",
		NetValue:      value,
	}, nil
}

func (s *stubGateway) CancelCharge(context.Context, string) error { return nil }
