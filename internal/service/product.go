package service

import (
	"context"

	"autobier-api/internal/apperr"
	"autobier-api/internal/dto"
	"autobier-api/internal/model"
	"autobier-api/internal/repository"
)

type ProductService interface {
	List(ctx context.Context) ([]*model.Product, error)
	Create(ctx context.Context, req *dto.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, productID string, req *dto.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, productID string) error
}

type productServiceImpl struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productServiceImpl{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productServiceImpl) List(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *productServiceImpl) Create(ctx context.Context, req *dto.CreateProductRequest) (*model.Product, error) {
	if req.Name == "" {
		return nil, apperr.Validationf("product name is required")
	}
	if req.CategoryID == "" {
		return nil, apperr.Validationf("category_id is required")
	}
	if req.SalePrice.IsNegative() {
		return nil, apperr.Validationf("sale_price cannot be negative")
	}

	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, apperr.Validationf("category %s does not exist", req.CategoryID)
	}

	product := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		ImageBase64:   req.ImageBase64,
		CategoryID:    req.CategoryID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, &apperr.PersistenceError{Op: "create product", Err: err}
	}

	return product, nil
}

func (s *productServiceImpl) Update(ctx context.Context, productID string, req *dto.UpdateProductRequest) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Category is validated only when the caller is actually changing it.
	if req.CategoryID != "" && req.CategoryID != product.CategoryID {
		if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
			return nil, apperr.Validationf("category %s does not exist", req.CategoryID)
		}
		product.CategoryID = req.CategoryID
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.ImageBase64 != "" {
		product.ImageBase64 = req.ImageBase64
	}
	if req.PurchasePrice != nil {
		product.PurchasePrice = *req.PurchasePrice
	}
	if req.SalePrice != nil {
		if req.SalePrice.IsNegative() {
			return nil, apperr.Validationf("sale_price cannot be negative")
		}
		// Placed orders keep their captured unit_price; this only affects
		// future checkouts.
		product.SalePrice = *req.SalePrice
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, &apperr.PersistenceError{Op: "update product", Err: err}
	}

	return product, nil
}

func (s *productServiceImpl) Delete(ctx context.Context, productID string) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return &apperr.PersistenceError{Op: "delete product", Err: err}
	}

	return nil
}
