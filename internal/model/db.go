package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
)

// statusSources lists which states a status may be entered from. Used as an
// UPDATE guard so redelivered webhooks and late events become no-ops instead
// of illegal transitions. PAID orders are never demoted: admin cancellation
// of a paid order removes the row entirely rather than updating status.
var statusSources = map[OrderStatus][]OrderStatus{
	OrderPaid:      {OrderPending},
	OrderCancelled: {OrderPending},
}

// TransitionsInto returns the states allowed to move into status s.
func TransitionsInto(s OrderStatus) []OrderStatus {
	return statusSources[s]
}

type Category struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:128;uniqueIndex;not null"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID            string          `gorm:"primaryKey;size:36"`
	Name          string          `gorm:"size:128;not null"`
	Description   string
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ImageBase64   string          `gorm:"column:image_base64;type:longtext"`
	CategoryID    string          `gorm:"size:36;index;not null"`
	Category      *Category
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Order struct {
	ID           string          `gorm:"primaryKey;size:36"`
	CustomerName string          `gorm:"size:128;not null"`
	CustomerCPF  string          `gorm:"column:customer_cpf;size:14;not null"`
	TotalValue   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status       OrderStatus     `gorm:"size:16;index;not null;default:PENDING"`

	// Set once at checkout, unique per order, used by webhook lookups.
	AsaasPaymentID string `gorm:"size:64;uniqueIndex"`
	QRCodeBase64   string `gorm:"column:qr_code_base64;type:longtext"`
	CopyPasteCode  string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderItem struct {
	ID        string `gorm:"primaryKey;size:36"`
	OrderID   string `gorm:"size:36;index;not null"`
	ProductID string `gorm:"size:36;index;not null"`
	Product   *Product
	Quantity  int `gorm:"not null"`
	// Sale price captured at purchase time; later product edits never touch it.
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
