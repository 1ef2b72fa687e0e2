package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         Role      `gorm:"type:varchar(16);not null" json:"role"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PhoneNumber  string    `json:"phone_number"`
	CreatedAt    time.Time `gorm:"not null"                 json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"            json:"id"`
	Name        string          `gorm:"not null;index"                  json:"name"`
	Description string          `gorm:"not null"                        json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"     json:"price"`
	Category    Category        `gorm:"type:varchar(16);not null;index" json:"category"`
	Brand       Brand           `gorm:"type:varchar(16);not null"       json:"brand"`
	ImageURL    string          `gorm:"not null"                        json:"image_url"`
	InStock     bool            `gorm:"not null"                        json:"in_stock"`
	Deleted     bool            `gorm:"not null;default:false;index"    json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Cart struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"          json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	LastUpdated time.Time  `gorm:"index;not null"                json:"last_updated"`
	Items       []CartItem `gorm:"constraint:OnDelete:CASCADE"   json:"items"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CartItem is unique per (cart, product); repeated adds bump Quantity instead of adding rows.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                             json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null"  json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product;not null"  json:"product_id"`
	Quantity  uint      `gorm:"not null;default:1;check:quantity>0"              json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID"                             json:"product,omitempty"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Order struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID     uuid.UUID       `gorm:"type:uuid;index;not null"    json:"user_id"`
	CreatedOn  time.Time       `gorm:"index;not null"              json:"created_on"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	Items      []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem freezes quantity and unit price at checkout; later product edits do not reach it.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"                json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"            json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"                  json:"product_id"`
	Quantity  uint            `gorm:"not null;check:quantity>0"           json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"         json:"unit_price"`
	Product   *Product        `gorm:"foreignKey:ProductID"                json:"product,omitempty"`
}

func (o *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return LineTotal(i.UnitPrice, i.Quantity)
}

func LineTotal(price decimal.Decimal, quantity uint) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

func AllModels() []any {
	return []any{&User{}, &Product{}, &Cart{}, &CartItem{}, &Order{}, &OrderItem{}}
}
