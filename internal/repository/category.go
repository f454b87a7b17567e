package repository

import (
	"context"

	"autobier-api/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, categoryID string) error
	FindByID(ctx context.Context, categoryID string) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]*model.Category, error)
}

type categoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepoImpl{
		db: db,
	}
}

func (r *categoryRepoImpl) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepoImpl) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepoImpl) Delete(ctx context.Context, categoryID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", categoryID).
		Delete(&model.Category{}).Error
}

func (r *categoryRepoImpl) FindByID(ctx context.Context, categoryID string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("id = ?", categoryID).
		First(&category).Error

	if err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryRepoImpl) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&category).Error

	if err != nil {
		return nil, err
	}

	return &category, nil
}

func (r *categoryRepoImpl) List(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error

	if err != nil {
		return nil, err
	}

	return categories, nil
}
