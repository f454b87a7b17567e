package service

import (
	"context"
	"testing"

	"autobier-api/internal/client"
	"autobier-api/internal/model"
	"autobier-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

func seedProduct(t *testing.T, db *gorm.DB, name, salePrice string) *model.Product {
	t.Helper()

	category := &model.Category{Name: "cat-" + uuid.NewString()}
	require.NoError(t, db.Create(category).Error)

	product := &model.Product{
		Name:       name,
		SalePrice:  decimal.RequireFromString(salePrice),
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedOrder(t *testing.T, db *gorm.DB, paymentID string, status model.OrderStatus) *model.Order {
	t.Helper()

	order := &model.Order{
		CustomerName:   "Cliente Teste",
		CustomerCPF:    "52998224725",
		TotalValue:     decimal.RequireFromString("30.00"),
		Status:         status,
		AsaasPaymentID: paymentID,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func countOrders(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.Order{}).Count(&count).Error)
	return count
}

func countItems(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.OrderItem{}).Count(&count).Error)
	return count
}

// fakeAsaas is an in-memory stand-in for the gateway client.
type fakeAsaas struct {
	customerID string
	resolveErr error

	charge    *client.PixCharge
	chargeErr error
	charged   []decimal.Decimal

	cancelErr error
	cancelled []string
}

func (f *fakeAsaas) ResolveCustomer(_ context.Context, _, _, _ string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	if f.customerID == "" {
		return "cus_fake", nil
	}
	return f.customerID, nil
}

func (f *fakeAsaas) CreateCharge(_ context.Context, _ string, value decimal.Decimal) (*client.PixCharge, error) {
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	f.charged = append(f.charged, value)
	if f.charge != nil {
		return f.charge, nil
	}
	return &client.PixCharge{
		ID:            "pay_fake",
		QRCodeBase64:  "fake-qr",
		CopyPasteCode: "fake-copy-paste",
		NetValue:      value,
	}, nil
}

func (f *fakeAsaas) CancelCharge(_ context.Context, paymentID string) error {
	f.cancelled = append(f.cancelled, paymentID)
	return f.cancelErr
}

func newOrderService(db *gorm.DB, gateway client.AsaasClient) OrderService {
	return NewOrderService(db, gateway,
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db))
}
