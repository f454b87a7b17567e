package service

import (
	"context"
	"errors"
	"log"

	"autobier-api/internal/apperr"
	"autobier-api/internal/client"
	"autobier-api/internal/dto"
	"autobier-api/internal/model"
	"autobier-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.OrderReceipt, error)
	List(ctx context.Context) ([]*dto.OrderView, error)
	Status(ctx context.Context, orderID string) (*dto.OrderStatusResponse, error)
	Cancel(ctx context.Context, orderID string) error
	ClearHistory(ctx context.Context) error
}

type orderServiceImpl struct {
	db          *gorm.DB
	asaasClient client.AsaasClient
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewOrderService(
	db *gorm.DB,
	asaasClient client.AsaasClient,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) OrderService {
	return &orderServiceImpl{
		db:          db,
		asaasClient: asaasClient,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// Checkout turns a cart into a persisted order with an attached Pix charge.
// Every step is a hard precondition for the next: nothing is persisted until
// the customer is resolved and the charge exists remotely.
func (s *orderServiceImpl) Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.OrderReceipt, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validationf("order must contain at least one item")
	}
	if req.CustomerName == "" {
		return nil, apperr.Validationf("customer_name is required")
	}
	if req.CustomerCPF == "" {
		return nil, apperr.Validationf("customer_cpf is required")
	}

	// Quantities for repeated product ids accumulate into one line.
	productIDs := make([]string, 0, len(req.Items))
	quantityByID := make(map[string]int, len(req.Items))
	for _, line := range req.Items {
		if line.ProductID == "" {
			return nil, apperr.Validationf("cart line is missing product_id")
		}
		if line.Quantity < 1 {
			return nil, apperr.Validationf("item quantity must be positive")
		}
		if _, seen := quantityByID[line.ProductID]; !seen {
			productIDs = append(productIDs, line.ProductID)
		}
		quantityByID[line.ProductID] += line.Quantity
	}

	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "load products", Err: err}
	}

	productByID := make(map[string]*model.Product, len(products))
	for _, product := range products {
		productByID[product.ID] = product
	}
	for _, id := range productIDs {
		if _, ok := productByID[id]; !ok {
			return nil, apperr.Validationf("product %s not found", id)
		}
	}

	// Current sale price is authoritative; client-supplied prices are never
	// trusted. Rounding happens once, after summation.
	orderID := uuid.NewString()
	total := decimal.Zero
	orderItems := make([]*model.OrderItem, 0, len(productIDs))
	for _, id := range productIDs {
		product := productByID[id]
		quantity := quantityByID[id]

		total = total.Add(product.SalePrice.Mul(decimal.NewFromInt(int64(quantity))))
		orderItems = append(orderItems, &model.OrderItem{
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: product.SalePrice,
		})
	}
	total = total.Round(2)

	customerID, err := s.asaasClient.ResolveCustomer(ctx, req.CustomerName, req.CustomerCPF, "")
	if err != nil {
		return nil, err
	}

	charge, err := s.asaasClient.CreateCharge(ctx, customerID, total)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:             orderID,
		CustomerName:   req.CustomerName,
		CustomerCPF:    req.CustomerCPF,
		TotalValue:     total,
		Status:         model.OrderPending,
		AsaasPaymentID: charge.ID,
		QRCodeBase64:   charge.QRCodeBase64,
		CopyPasteCode:  charge.CopyPasteCode,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}
		return s.orderRepo.CreateOrderItems(ctx, tx, orderItems)
	})
	if err != nil {
		// The remote charge exists but no local order does. This is the one
		// inconsistency window of the flow; flag it for manual follow-up.
		log.Printf("INCONSISTENCY: order persistence failed after asaas charge %s was created, manual reconciliation required: %v",
			charge.ID, err)
		return nil, &apperr.PersistenceError{Op: "create order", Err: err}
	}

	full, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "reload order", Err: err}
	}

	receipt := &dto.OrderReceipt{
		ID:            full.ID,
		TotalValue:    full.TotalValue,
		Status:        string(full.Status),
		CustomerName:  full.CustomerName,
		CreatedAt:     full.CreatedAt,
		QRCodeBase64:  full.QRCodeBase64,
		CopyPasteCode: full.CopyPasteCode,
		Items:         make([]dto.ReceiptItem, 0, len(full.Items)),
	}
	for _, item := range full.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		receipt.Items = append(receipt.Items, dto.ReceiptItem{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	return receipt, nil
}

func (s *orderServiceImpl) List(ctx context.Context) ([]*dto.OrderView, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*dto.OrderView, 0, len(orders))
	for _, order := range orders {
		view := &dto.OrderView{
			ID:           order.ID,
			CustomerName: order.CustomerName,
			CustomerCPF:  order.CustomerCPF,
			TotalValue:   order.TotalValue,
			Status:       string(order.Status),
			CreatedAt:    order.CreatedAt,
			Items:        make([]dto.OrderViewItem, 0, len(order.Items)),
		}
		for _, item := range order.Items {
			viewItem := dto.OrderViewItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			}
			if item.Product != nil {
				viewItem.ProductName = item.Product.Name
				viewItem.ProductImage = item.Product.ImageBase64
			}
			view.Items = append(view.Items, viewItem)
		}
		views = append(views, view)
	}

	return views, nil
}

// Status is the storefront polling read: id and status only, no side
// effects, safe at high frequency.
func (s *orderServiceImpl) Status(ctx context.Context, orderID string) (*dto.OrderStatusResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &dto.OrderStatusResponse{
		ID:     order.ID,
		Status: string(order.Status),
	}, nil
}

// Cancel removes an order and its items. The remote charge is cancelled
// best-effort first: a settled or unreachable charge never blocks the local
// cancellation, but both outcomes are logged so operators can audit dangling
// remote charges.
func (s *orderServiceImpl) Cancel(ctx context.Context, orderID string) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.AsaasPaymentID != "" {
		err := s.asaasClient.CancelCharge(ctx, order.AsaasPaymentID)
		var conflict *apperr.GatewayConflict
		switch {
		case err == nil:
			log.Printf("remote charge %s cancelled for order %s", order.AsaasPaymentID, order.ID)
		case errors.As(err, &conflict):
			log.Printf("remote charge %s already settled, local cancellation only for order %s: %v",
				order.AsaasPaymentID, order.ID, err)
		default:
			log.Printf("remote cancel of charge %s failed, proceeding with local cancellation of order %s: %v",
				order.AsaasPaymentID, order.ID, err)
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.Delete(ctx, tx, orderID)
	})
	if err != nil {
		return &apperr.PersistenceError{Op: "delete order", Err: err}
	}

	return nil
}

func (s *orderServiceImpl) ClearHistory(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.DeleteAll(ctx, tx)
	})
	if err != nil {
		return &apperr.PersistenceError{Op: "clear order history", Err: err}
	}

	return nil
}
