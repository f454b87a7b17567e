package service

import (
	"context"
	"testing"
	"time"

	"autobier-api/internal/apperr"
	"autobier-api/internal/client"
	"autobier-api/internal/dto"
	"autobier-api/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db, &fakeAsaas{})

	_, err := svc.Checkout(context.Background(), &dto.CheckoutRequest{
		CustomerName: "Joao",
		CustomerCPF:  "52998224725",
	})

	var validation *apperr.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Zero(t, countOrders(t, db), "no order row on validation failure")
}

func TestCheckoutUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Chopp Pilsen", "10.00")
	svc := newOrderService(db, &fakeAsaas{})

	_, err := svc.Checkout(context.Background(), &dto.CheckoutRequest{
		CustomerName: "Joao",
		CustomerCPF:  "52998224725",
		Items: []dto.CartLine{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: "missing-id", Quantity: 2},
		},
	})

	var validation *apperr.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "missing-id", "error names the missing product id")
	assert.Zero(t, countOrders(t, db))
	assert.Zero(t, countItems(t, db))
}

func TestCheckoutInvalidQuantity(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Chopp Pilsen", "10.00")
	svc := newOrderService(db, &fakeAsaas{})

	_, err := svc.Checkout(context.Background(), &dto.CheckoutRequest{
		CustomerName: "Joao",
		CustomerCPF:  "52998224725",
		Items:        []dto.CartLine{{ProductID: product.ID, Quantity: 0}},
	})

	var validation *apperr.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestCheckoutHappyPath(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Chopp Pilsen", "10.00")
	gateway := &fakeAsaas{}
	svc := newOrderService(db, gateway)

	receipt, err := svc.Checkout(context.Background(), &dto.CheckoutRequest{
		CustomerName: "Joao",
		CustomerCPF:  "529.982.247-25",
		Items:        []dto.CartLine{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.True(t, receipt.TotalValue.Equal(decimal.RequireFromString("30.00")),
		"total is 10.00 x 3, got %s", receipt.TotalValue)
	assert.Equal(t, string(model.OrderPending), receipt.Status)
	assert.Equal(t, "Joao", receipt.CustomerName)
	assert.Equal(t, "fake-qr", receipt.QRCodeBase64)
	assert.Equal(t, "fake-copy-paste", receipt.CopyPasteCode)
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, "Chopp Pilsen", receipt.Items[0].ProductName)
	assert.Equal(t, 3, receipt.Items[0].Quantity)
	assert.True(t, receipt.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))

	// The charge was created for the computed total, not a client value.
	require.Len(t, gateway.charged, 1)
	assert.True(t, gateway.charged[0].Equal(decimal.RequireFromString("30.00")))

	var stored model.Order
	require.NoError(t, db.Preload("Items").First(&stored, "id = ?", receipt.ID).Error)
	assert.Equal(t, "pay_fake", stored.AsaasPaymentID)
	assert.Equal(t, model.OrderPending, stored.Status)
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")),
		"unit price captured at purchase time")
}

func TestCheckoutRoundsOnceAfterSummation(t *testing.T) {
	db := newTestDB(t)
	a := seedProduct(t, db, "A", "0.333")
	b := seedProduct(t, db, "B", "0.333")
	gateway := &fakeAsaas{}
	svc := newOrderService(db, gateway)

	receipt, err := svc.Checkout(context.Background(), &dto.CheckoutRequest{
		CustomerName: "Joao",
		CustomerCPF:  "52998224725",
		Items: []dto.CartLine{
			{ProductID: a.ID, Quantity: 1},
			{ProductID: b.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	// 0.333 + 0.333 = 0.666 → 0.67 rounded half-up at the end; per-line
	// rounding would give 0.33 + 0.33 = 0.66.
	assert.True(t, receipt.TotalValue.Equal(decimal.RequireFromString("0.67")),
		"expected 0.67, got %s", receipt.TotalValue)
}

func TestCheckoutMergesDuplicateLines(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Chopp Pilsen", "10.00")
	svc := newOrderService(db, &fakeAsaas{})

	receipt, err := svc.Checkout(context.Background(), &dto.CheckoutRequest{
		CustomerName: "Joao",
		CustomerCPF:  "52998224725",
		Items: []dto.CartLine{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: product.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.True(t, receipt.TotalValue.Equal(decimal.RequireFromString("30.00")))
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, 3, receipt.Items[0].Quantity)
}

func TestCheckoutGatewayFailureCreatesNothing(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Chopp Pilsen", "10.00")

	t.Run("customer resolution fails", func(t *testing.T) {
		svc := newOrderService(db, &fakeAsaas{
			resolveErr: &apperr.GatewayError{Op: "create customer", Detail: "CPF invalido"},
		})

		_, err := svc.Checkout(context.Background(), &dto.CheckoutRequest{
			CustomerName: "Joao",
			CustomerCPF:  "000",
			Items:        []dto.CartLine{{ProductID: product.ID, Quantity: 1}},
		})

		var gatewayErr *apperr.GatewayError
		require.ErrorAs(t, err, &gatewayErr)
		assert.Zero(t, countOrders(t, db))
	})

	t.Run("charge creation fails", func(t *testing.T) {
		svc := newOrderService(db, &fakeAsaas{
			chargeErr: &apperr.GatewayError{Op: "create charge", Detail: "provider down"},
		})

		_, err := svc.Checkout(context.Background(), &dto.CheckoutRequest{
			CustomerName: "Joao",
			CustomerCPF:  "52998224725",
			Items:        []dto.CartLine{{ProductID: product.ID, Quantity: 1}},
		})

		var gatewayErr *apperr.GatewayError
		require.ErrorAs(t, err, &gatewayErr)
		assert.Zero(t, countOrders(t, db))
		assert.Zero(t, countItems(t, db))
	})
}

func TestStatusRoundTrip(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Chopp Pilsen", "10.00")
	svc := newOrderService(db, &fakeAsaas{})

	receipt, err := svc.Checkout(context.Background(), &dto.CheckoutRequest{
		CustomerName: "Joao",
		CustomerCPF:  "52998224725",
		Items:        []dto.CartLine{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	status, err := svc.Status(context.Background(), receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt.ID, status.ID)
	assert.Equal(t, string(model.OrderPending), status.Status)

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].TotalValue.Equal(receipt.TotalValue))
	require.Len(t, views[0].Items, 1)
	assert.Equal(t, "Chopp Pilsen", views[0].Items[0].ProductName)
}

func TestStatusUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db, &fakeAsaas{})

	_, err := svc.Status(context.Background(), "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db, &fakeAsaas{})

	older := seedOrder(t, db, "pay_old", model.OrderPending)
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)
	newer := seedOrder(t, db, "pay_new", model.OrderPending)

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, newer.ID, views[0].ID)
	assert.Equal(t, older.ID, views[1].ID)
}

func TestCancelRemovesOrderAndItems(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Chopp Pilsen", "10.00")
	gateway := &fakeAsaas{}
	svc := newOrderService(db, gateway)

	receipt, err := svc.Checkout(context.Background(), &dto.CheckoutRequest{
		CustomerName: "Joao",
		CustomerCPF:  "52998224725",
		Items:        []dto.CartLine{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), receipt.ID))

	assert.Equal(t, []string{"pay_fake"}, gateway.cancelled)
	assert.Zero(t, countOrders(t, db))
	assert.Zero(t, countItems(t, db))
}

func TestCancelSettledChargeStillRemovesLocally(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeAsaas{
		cancelErr: &apperr.GatewayConflict{PaymentID: "pay_settled", Detail: "already received"},
	}
	svc := newOrderService(db, gateway)
	order := seedOrder(t, db, "pay_settled", model.OrderPaid)

	// Remote refusal is best-effort territory; local cancellation proceeds.
	require.NoError(t, svc.Cancel(context.Background(), order.ID))
	assert.Zero(t, countOrders(t, db))
}

func TestCancelGatewayDownStillRemovesLocally(t *testing.T) {
	db := newTestDB(t)
	gateway := &fakeAsaas{
		cancelErr: &apperr.GatewayError{Op: "cancel charge", Detail: "timeout"},
	}
	svc := newOrderService(db, gateway)
	order := seedOrder(t, db, "pay_1", model.OrderPending)

	require.NoError(t, svc.Cancel(context.Background(), order.ID))
	assert.Zero(t, countOrders(t, db))
}

func TestCancelUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db, &fakeAsaas{})

	err := svc.Cancel(context.Background(), "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClearHistory(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db, &fakeAsaas{})

	order := seedOrder(t, db, "pay_1", model.OrderPending)
	require.NoError(t, db.Create(&model.OrderItem{
		OrderID:   order.ID,
		ProductID: seedProduct(t, db, "P", "1.00").ID,
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(1),
	}).Error)
	seedOrder(t, db, "pay_2", model.OrderPaid)

	require.NoError(t, svc.ClearHistory(context.Background()))
	assert.Zero(t, countOrders(t, db))
	assert.Zero(t, countItems(t, db))
}

var _ client.AsaasClient = (*fakeAsaas)(nil)
