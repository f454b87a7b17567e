package repository

import (
	"context"

	"autobier-api/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindByIDWithItems(ctx context.Context, orderID string) (*model.Order, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*model.Order, error)
	List(ctx context.Context) ([]*model.Order, error)
	MarkStatus(ctx context.Context, orderID string, to model.OrderStatus) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, orderID string) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByIDWithItems(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("asaas_payment_id = ?", paymentID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) List(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

// MarkStatus updates the order's status only when the current status is an
// allowed source for the target. Returns affected rows so callers can tell a
// real transition from an idempotent redelivery (0 rows, no error).
func (r *orderRepoImpl) MarkStatus(ctx context.Context, orderID string, to model.OrderStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status IN ?", orderID, model.TransitionsInto(to)).
		Update("status", to)

	return result.RowsAffected, result.Error
}

func (r *orderRepoImpl) Delete(ctx context.Context, tx *gorm.DB, orderID string) error {
	if err := tx.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}

	return tx.WithContext(ctx).
		Where("id = ?", orderID).
		Delete(&model.Order{}).Error
}

func (r *orderRepoImpl) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	if err := tx.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}

	return tx.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.Order{}).Error
}
