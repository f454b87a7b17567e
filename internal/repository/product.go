package repository

import (
	"context"

	"autobier-api/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, productID string) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepoImpl) Delete(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&model.Product{}).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) List(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC").
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error

	return count, err
}
