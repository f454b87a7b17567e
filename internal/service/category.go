package service

import (
	"context"
	"errors"

	"autobier-api/internal/apperr"
	"autobier-api/internal/dto"
	"autobier-api/internal/model"
	"autobier-api/internal/repository"

	"gorm.io/gorm"
)

type CategoryService interface {
	List(ctx context.Context) ([]*model.Category, error)
	Create(ctx context.Context, req *dto.CreateCategoryRequest) (*model.Category, error)
	Update(ctx context.Context, categoryID string, req *dto.UpdateCategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, categoryID string) error
}

type categoryServiceImpl struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) CategoryService {
	return &categoryServiceImpl{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *categoryServiceImpl) List(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryServiceImpl) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*model.Category, error) {
	if req.Name == "" {
		return nil, apperr.Validationf("category name is required")
	}

	_, err := s.categoryRepo.FindByName(ctx, req.Name)
	if err == nil {
		return nil, apperr.Validationf("category %q already exists", req.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, &apperr.PersistenceError{Op: "create category", Err: err}
	}

	return category, nil
}

func (s *categoryServiceImpl) Update(ctx context.Context, categoryID string, req *dto.UpdateCategoryRequest) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, &apperr.PersistenceError{Op: "update category", Err: err}
	}

	return category, nil
}

// Delete refuses to remove a category that still has products, keeping
// products from pointing at a missing category.
func (s *categoryServiceImpl) Delete(ctx context.Context, categoryID string) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return err
	}

	count, err := s.productRepo.CountByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validationf("cannot delete category: %d products still reference it", count)
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return &apperr.PersistenceError{Op: "delete category", Err: err}
	}

	return nil
}
