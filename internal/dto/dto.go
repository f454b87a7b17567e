package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is the single accepted shape for a checkout item. The API does
// not sniff alternative field names; anything without a product_id is
// rejected at validation.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CheckoutRequest struct {
	CustomerName string     `json:"customer_name"`
	CustomerCPF  string     `json:"customer_cpf"`
	Items        []CartLine `json:"items"`
}

type ReceiptItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type OrderReceipt struct {
	ID            string          `json:"id"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Status        string          `json:"status"`
	CustomerName  string          `json:"customer_name"`
	CreatedAt     time.Time       `json:"created_at"`
	QRCodeBase64  string          `json:"qr_code_base64"`
	CopyPasteCode string          `json:"copy_paste_code"`
	Items         []ReceiptItem   `json:"items"`
}

// OrderView is the admin listing shape: the full order with items joined to
// product name and image.
type OrderView struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customer_name"`
	CustomerCPF  string          `json:"customer_cpf"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	Items        []OrderViewItem `json:"items"`
}

type OrderViewItem struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

type OrderStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// WebhookPayload is the inbound Asaas notification body. Extra fields under
// payment are ignored; only the id drives reconciliation.
type WebhookPayload struct {
	Event   string `json:"event"`
	Payment struct {
		ID string `json:"id"`
	} `json:"payment"`
}

type WebhookAck struct {
	Received bool   `json:"received"`
	Error    string `json:"error,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	ImageBase64   string          `json:"image_base64"`
	CategoryID    string          `json:"category_id"`
}

type UpdateProductRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	ImageBase64   string           `json:"image_base64"`
	CategoryID    string           `json:"category_id"`
}
