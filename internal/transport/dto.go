package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/football_store/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        models.User `json:"user"`
}

type EditProfileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	ImageURL    string          `json:"image_url"`
	InStock     bool            `json:"in_stock"`
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}

type CartResponse struct {
	ID          uuid.UUID         `json:"id"`
	LastUpdated time.Time         `json:"last_updated"`
	Items       []models.CartItem `json:"items"`
	Total       string            `json:"total"`
}

func NewCartResponse(cart *models.Cart, total decimal.Decimal) CartResponse {
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return CartResponse{
		ID:          cart.ID,
		LastUpdated: cart.LastUpdated,
		Items:       items,
		Total:       total.StringFixed(2),
	}
}

type ExpireCartsResponse struct {
	Cleared int `json:"cleared"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ProductPage struct {
	Data []models.Product `json:"data"`
	Meta PageMeta         `json:"meta"`
}
